package export

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/rpggio/v2c/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func sampleProject() *project.Project {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	proj := &project.Project{
		ID:        "project_20240301_120000_abcd1234",
		Name:      "Demo",
		Language:  "python",
		CreatedAt: created,
	}
	proj.PutFile("main.py", project.FileRecord{Content: "print('hi')\n", Language: "python", CreatedAt: created})
	proj.PutFile("utils.py", project.FileRecord{Content: "def f():\n    return 1\n", Language: "python", CreatedAt: created})
	return proj
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(b)
	}
	return out
}

func TestPackage_ContainsFilesAndDocs(t *testing.T) {
	archive, err := Package(sampleProject(), Extras{})
	require.NoError(t, err)
	require.Equal(t, "Demo.zip", archive.Filename)

	files := readZip(t, archive.Data)
	require.Equal(t, "print('hi')\n", files["main.py"])
	require.Contains(t, files, "utils.py")
	require.Contains(t, files, "README.md")
	require.Contains(t, files, "PROJECT_STRUCTURE.md")
	require.Contains(t, files, "preview/main.py.html")
	require.Contains(t, files, "preview/utils.py.html")
	require.NotContains(t, files, "console_output.txt")
	require.NotContains(t, files, "code_description.txt")

	require.Contains(t, files["README.md"], "# Demo")
	require.Contains(t, files["README.md"], "- main.py\n- utils.py")
	require.Contains(t, files["README.md"], "Python")
	require.Contains(t, files["PROJECT_STRUCTURE.md"], "├── utils.py")
	require.Contains(t, files["PROJECT_STRUCTURE.md"], "- **Size**: 12 B")
}

func TestPackage_Extras(t *testing.T) {
	archive, err := Package(sampleProject(), Extras{ConsoleOutput: "hi\n", Description: "Prints hi."})
	require.NoError(t, err)

	files := readZip(t, archive.Data)
	require.Equal(t, "hi\n", files["console_output.txt"])
	require.Equal(t, "Prints hi.", files["code_description.txt"])
}

func TestPackage_PrefersProjectReadme(t *testing.T) {
	proj := sampleProject()
	proj.Readme = "# Custom"

	archive, err := Package(proj, Extras{})
	require.NoError(t, err)
	require.Equal(t, "# Custom", readZip(t, archive.Data)["README.md"])
}

func TestPackage_ProjectFileWinsOverGeneratedReadme(t *testing.T) {
	proj := sampleProject()
	proj.PutFile("README.md", project.FileRecord{Content: "mine", Language: "markdown"})

	archive, err := Package(proj, Extras{})
	require.NoError(t, err)
	require.Equal(t, "mine", readZip(t, archive.Data)["README.md"])
}

func TestPackage_ConfinesPaths(t *testing.T) {
	proj := sampleProject()
	proj.PutFile("../../etc/passwd", project.FileRecord{Content: "x", Language: "text"})

	archive, err := Package(proj, Extras{})
	require.NoError(t, err)

	files := readZip(t, archive.Data)
	require.Equal(t, "x", files["etc/passwd"])
	for name := range files {
		require.NotContains(t, name, "..")
	}
}

func TestPackage_Nil(t *testing.T) {
	_, err := Package(nil, Extras{})
	require.Error(t, err)
}

func TestArchiveName(t *testing.T) {
	require.Equal(t, "a_b.zip", ArchiveName(&project.Project{Name: "a/b"}))
	require.Equal(t, "p1.zip", ArchiveName(&project.Project{ID: "p1", Name: "  "}))
}
