package project

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"python":     ".py",
		"javascript": ".js",
		"cpp":        ".cpp",
		"r":          ".R",
		"Python":     ".py",
		"brainfuck":  ".txt",
		"":           ".txt",
	}
	for lang, want := range cases {
		require.Equal(t, want, Extension(lang), lang)
	}
}

func TestAutoFilename_SkipsTakenNames(t *testing.T) {
	files := map[string]FileRecord{
		"main.py":  {},
		"file1.py": {},
		"file3.py": {},
	}
	name, err := AutoFilename(files, "python")
	require.NoError(t, err)
	require.Equal(t, "file2.py", name)
}

func TestAutoFilename_OtherExtensionsDoNotCollide(t *testing.T) {
	files := map[string]FileRecord{"main.js": {}}
	name, err := AutoFilename(files, "python")
	require.NoError(t, err)
	require.Equal(t, "main.py", name)
}

func TestAutoFilename_AlwaysTerminates(t *testing.T) {
	files := map[string]FileRecord{}
	for i := 0; i < 200; i++ {
		name, err := AutoFilename(files, "go")
		require.NoError(t, err)
		_, taken := files[name]
		require.False(t, taken)
		files[name] = FileRecord{}
	}
}
