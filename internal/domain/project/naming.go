package project

import (
	"fmt"
	"strings"
)

var extensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"java":       ".java",
	"cpp":        ".cpp",
	"c":          ".c",
	"csharp":     ".cs",
	"php":        ".php",
	"ruby":       ".rb",
	"go":         ".go",
	"rust":       ".rs",
	"swift":      ".swift",
	"kotlin":     ".kt",
	"typescript": ".ts",
	"html":       ".html",
	"css":        ".css",
	"sql":        ".sql",
	"r":          ".R",
	"matlab":     ".m",
	"scala":      ".scala",
	"perl":       ".pl",
	"bash":       ".sh",
}

// Extension returns the conventional file suffix for a language tag.
// Unknown languages map to ".txt".
func Extension(language string) string {
	if ext, ok := extensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return ".txt"
}

// AutoFilename picks the first free name among main<ext>, file1<ext>, file2<ext>, ...
//
// With n existing files at most n candidates can be taken, so n+1 candidates
// always contain a free one.
func AutoFilename(files map[string]FileRecord, language string) (string, error) {
	ext := Extension(language)

	name := "main" + ext
	if _, taken := files[name]; !taken {
		return name, nil
	}
	for i := 1; i <= len(files); i++ {
		name = fmt.Sprintf("file%d%s", i, ext)
		if _, taken := files[name]; !taken {
			return name, nil
		}
	}
	return "", ErrNameCollision
}
