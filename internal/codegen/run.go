package codegen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

var titler = cases.Title(xlanguage.English)

// RunResult reports how a run request was handled. Code is never executed on
// the server; languages the browser can run are acknowledged, the rest are
// refused.
type RunResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}

// Run applies the execution policy for language.
func Run(language string) RunResult {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = DefaultLanguage
	}

	switch lang {
	case "javascript":
		return RunResult{Success: true, Output: "JavaScript execution handled in browser"}
	case "html":
		return RunResult{Success: true, Output: "HTML rendered in preview"}
	default:
		return RunResult{
			Success: false,
			Error:   fmt.Sprintf("%s execution not supported on server", titler.String(lang)),
		}
	}
}
