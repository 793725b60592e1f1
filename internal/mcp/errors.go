package mcp

import (
	"github.com/rpggio/v2c/internal/apierror"
)

// MapError maps domain errors to tool errors. The returned error's text is
// "<CODE>: <message>", which is what MCP clients see.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return apierror.Map(err)
}
