// Package format tidies source code and renders highlighted previews.
package format

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const indentUnit = "    "

var jsReplacer = strings.NewReplacer(";", ";\n", "{", "{\n", "}", "\n}")

// Format applies a lightweight per-language clean-up. It is a heuristic and
// never fails.
func Format(code, language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "python":
		return formatPython(code)
	case "javascript":
		return jsReplacer.Replace(code)
	default:
		var lines []string
		for _, line := range strings.Split(code, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		return strings.Join(lines, "\n")
	}
}

func formatPython(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	level := 0

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			out = append(out, "")
			continue
		}

		if isPythonContinuation(stripped) {
			level = max(0, level-1)
		}
		out = append(out, strings.Repeat(indentUnit, level)+stripped)
		if strings.HasSuffix(stripped, ":") {
			level++
		}
	}
	return strings.Join(out, "\n")
}

// isPythonContinuation reports whether a line closes the previous block and
// opens a sibling one.
func isPythonContinuation(stripped string) bool {
	for _, kw := range []string{"else", "elif", "except", "finally"} {
		if !strings.HasPrefix(stripped, kw) {
			continue
		}
		rest := stripped[len(kw):]
		if rest == "" || rest[0] == ':' || rest[0] == ' ' || rest[0] == '(' {
			return true
		}
	}
	return false
}

// Detect guesses the language of code. It returns "" when no lexer claims it.
func Detect(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	return strings.ToLower(lexer.Config().Name)
}

// HighlightHTML renders code as a standalone HTML document.
func HighlightHTML(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(
		chromahtml.Standalone(true),
		chromahtml.WithLineNumbers(true),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", language, err)
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}
