package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/topsize/internal/dirstat"
)

const mb = dirstat.MBFactor

func makeFile(t *testing.T, path string, size int64) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	require.NoError(t, os.Truncate(path, size))
}

// sampleTree builds root/{fileA=10MB, sub/{fileB=20MB}}.
func sampleTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	makeFile(t, filepath.Join(root, "fileA"), 10*mb)
	makeFile(t, filepath.Join(root, "sub", "fileB"), 20*mb)

	return root
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := New("1.2.3").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestCommand_Version(t *testing.T) {
	out, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestCommand_FileModeText(t *testing.T) {
	root := sampleTree(t)

	out, _, err := run(t, root, "-i", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Will look for the top 3 files from "+root+" using 1 threads\n")
	assert.Contains(t, out, "\nResults:\n")
	assert.Contains(t, out, FormatRow(dirstat.Entry{Name: filepath.Join(root, "sub", "fileB"), Size: 20 * mb})+"\n")
	assert.Contains(t, out, FormatRow(dirstat.Entry{Name: filepath.Join(root, "fileA"), Size: 10 * mb})+"\n")
	assert.Contains(t, out, FormatRow(dirstat.Entry{})+"\n")

	fileB := strings.Index(out, "fileB")
	fileA := strings.Index(out, "fileA")
	assert.Less(t, fileB, fileA)
}

func TestCommand_FolderModeJSON(t *testing.T) {
	root := sampleTree(t)

	for _, threads := range []string{"1", "4"} {
		out, _, err := run(t, "--folder", root, "--folder-size", "--track", "1", "--threads", threads, "-o", "json")
		require.NoError(t, err)

		var stats dirstat.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &stats))

		require.Len(t, stats.Entries, 1)
		assert.Equal(t, root, filepath.Clean(stats.Entries[0].Name))
		assert.Equal(t, uint64(30*mb), stats.Entries[0].Size)
		assert.True(t, stats.FolderMode)
	}
}

func TestCommand_ConfigFile(t *testing.T) {
	root := sampleTree(t)

	configPath := filepath.Join(t.TempDir(), "topsize.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("folder: "+root+"\ntrack: 1\noutput: json\n"), 0o644))

	out, _, err := run(t, "--config", configPath)
	require.NoError(t, err)

	var stats dirstat.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Track)

	// Explicit flags win over the file.
	out, _, err = run(t, "--config", configPath, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Top files:")
	assert.Contains(t, out, "fileB")
	assert.NotContains(t, out, "fileA")
}

func TestCommand_Errors(t *testing.T) {
	root := sampleTree(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "conflicting folders", args: []string{"-f", filepath.Join(root, "sub"), root}, wantErr: "conflicting folders"},
		{name: "invalid output", args: []string{root, "-o", "xml"}, wantErr: "invalid output format"},
		{name: "track out of range", args: []string{root, "-i", "256"}, wantErr: "invalid argument"},
		{name: "zero threads", args: []string{root, "-t", "0"}, wantErr: "threads must be >= 1"},
		{name: "too many args", args: []string{root, root}, wantErr: "accepts at most 1 arg"},
		{name: "missing config", args: []string{"--config", filepath.Join(root, "none.yaml")}, wantErr: "reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCommand_MissingFolderPrintsPlaceholders(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	out, errOut, err := run(t, missing, "-i", "3")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(errOut, "Error for path "+missing+": "), errOut)
	assert.Equal(t, 3, strings.Count(out, FormatRow(dirstat.Entry{})+"\n"))
}

func TestCommand_ReadErrorsGoToStderr(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := t.TempDir()
	makeFile(t, filepath.Join(root, "fileA"), 5*mb)
	makeFile(t, filepath.Join(root, "locked", "hidden"), 7*mb)

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	out, errOut, err := run(t, root, "-s", "-i", "1")
	require.NoError(t, err)

	assert.Equal(t, "Error for path "+locked+": open "+locked+": permission denied\n", errOut)
	assert.Contains(t, out, FormatRow(dirstat.Entry{Name: root, Size: 5 * mb}))
}
