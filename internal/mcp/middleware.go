package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const sessionIDKey contextKey = iota

func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// sessionMiddleware stores the client's session ID in the context. HTTP
// clients send the Mcp-Session-Id header; stdio clients may send
// _meta.session_id.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if id := requestSessionID(req); id != "" {
				ctx = context.WithValue(ctx, sessionIDKey, id)
			}
			return next(ctx, method, req)
		}
	}
}

func requestSessionID(req sdkmcp.Request) (id string) {
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if id = extra.Header.Get("Mcp-Session-Id"); id != "" {
			return id
		}
	}

	// Some notifications carry nil params behind a non-nil interface.
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	params := req.GetParams()
	if params == nil {
		return ""
	}
	id, _ = params.GetMeta()["session_id"].(string)
	return id
}

// toolCallMiddleware logs one line per tools/call with its duration and
// outcome. Tool errors are results, not Go errors, so IsError is checked too.
func toolCallMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}

			name := ""
			if p, ok := req.GetParams().(*sdkmcp.CallToolParamsRaw); ok && p != nil {
				name = p.Name
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			attrs := []any{"tool", name, "duration", time.Since(start), "session_id", getSessionID(ctx)}

			switch res, _ := result.(*sdkmcp.CallToolResult); {
			case err != nil:
				logger.Warn("tool call failed", append(attrs, "error", err)...)
			case res != nil && res.IsError:
				logger.Info("tool call rejected", attrs...)
			default:
				logger.Info("tool call", attrs...)
			}
			return result, err
		}
	}
}
