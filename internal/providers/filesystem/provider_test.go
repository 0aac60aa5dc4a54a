package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh9880/termipy/internal/shell"
)

func request(cwd string, args []string, flags map[string]bool) shell.Request {
	if flags == nil {
		flags = map[string]bool{}
	}
	return shell.Request{Args: args, Flags: flags, CWD: cwd, SessionID: "test"}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLsSkipsHiddenByDefault(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "visible.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden"), "x")

	res, err := p.ls(context.Background(), request(dir, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "visible.txt", res.Stdout)

	res, err = p.ls(context.Background(), request(dir, nil, map[string]bool{"a": true}))
	require.NoError(t, err)
	assert.Equal(t, ".hidden\nvisible.txt", res.Stdout)
}

func TestLsLongFormat(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.bin"), strings.Repeat("x", 2048))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	res, err := p.ls(context.Background(), request(dir, nil, map[string]bool{"l": true}))
	require.NoError(t, err)
	lines := strings.Split(res.Stdout, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "-"))
	assert.Contains(t, lines[0], "2048")
	assert.True(t, strings.HasPrefix(lines[1], "d"))

	res, err = p.ls(context.Background(), request(dir, nil, map[string]bool{"l": true, "h": true}))
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "2.0 KB")
}

func TestLsEmptyDirectory(t *testing.T) {
	p := New()
	res, err := p.ls(context.Background(), request(t.TempDir(), nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "Directory is empty", res.Stdout)
}

func TestCdResolvesRelativeAndReportsNewCwd(t *testing.T) {
	p := New()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	res, err := p.cd(context.Background(), request(dir, []string{"sub"}, nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub"), res.NewCwd)
	assert.Contains(t, res.Stdout, "Changed to:")
}

func TestCdMissingDirectoryIsNotFound(t *testing.T) {
	p := New()
	_, err := p.cd(context.Background(), request(t.TempDir(), []string{"nope"}, nil))
	require.Error(t, err)
	assert.Equal(t, shell.KindNotFound, shell.KindOf(err))
}

func TestCdNoArgGoesHome(t *testing.T) {
	p := New()
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	res, err := p.cd(context.Background(), request(t.TempDir(), nil, nil))
	require.NoError(t, err)
	assert.Equal(t, home, res.NewCwd)
}

func TestPwd(t *testing.T) {
	p := New()
	dir := t.TempDir()
	res, err := p.pwd(context.Background(), request(dir, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, dir, res.Stdout)
}

func TestMkdirCreatesNested(t *testing.T) {
	p := New()
	dir := t.TempDir()

	res, err := p.mkdir(context.Background(), request(dir, []string{"a/b/c", "d"}, nil))
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "Created directory: a/b/c")
	assert.DirExists(t, filepath.Join(dir, "a", "b", "c"))
	assert.DirExists(t, filepath.Join(dir, "d"))
}

func TestRmDirectoryNeedsRecursive(t *testing.T) {
	p := New()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	_, err := p.rm(context.Background(), request(dir, []string{"sub"}, nil))
	require.Error(t, err)
	assert.Equal(t, shell.KindInvalidArgument, shell.KindOf(err))

	_, err = p.rm(context.Background(), request(dir, []string{"sub"}, map[string]bool{"r": true}))
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "sub"))
}

func TestRmForceIgnoresMissing(t *testing.T) {
	p := New()
	dir := t.TempDir()

	_, err := p.rm(context.Background(), request(dir, []string{"ghost"}, nil))
	assert.Equal(t, shell.KindNotFound, shell.KindOf(err))

	_, err = p.rm(context.Background(), request(dir, []string{"ghost"}, map[string]bool{"f": true}))
	assert.NoError(t, err)
}

func TestRmdirRefusesNonEmpty(t *testing.T) {
	p := New()
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, filepath.Join(sub, "f"), "x")

	_, err := p.rmdir(context.Background(), request(dir, []string{"sub"}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")

	require.NoError(t, os.Remove(filepath.Join(sub, "f")))
	res, err := p.rmdir(context.Background(), request(dir, []string{"sub"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Removed directory: sub", res.Stdout)
}

func TestCpFileAndDirectory(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src.txt"), "hello")

	res, err := p.cp(context.Background(), request(dir, []string{"src.txt", "dst.txt"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Copied file 'src.txt' to 'dst.txt'", res.Stdout)
	data, err := os.ReadFile(filepath.Join(dir, "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tree", "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "tree", "sub", "deep.txt"), "deep")

	_, err = p.cp(context.Background(), request(dir, []string{"tree", "tree2"}, nil))
	require.Error(t, err, "directory copy without -r must fail")

	_, err = p.cp(context.Background(), request(dir, []string{"tree", "tree2"}, map[string]bool{"r": true}))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "tree2", "sub", "deep.txt"))
}

func TestMvIntoExistingDirectory(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "file.txt"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o755))

	res, err := p.mv(context.Background(), request(dir, []string{"file.txt", "docs"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Moved 'file.txt' to 'docs'", res.Stdout)
	assert.FileExists(t, filepath.Join(dir, "docs", "file.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "file.txt"))
}

func TestCatConcatenates(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "one\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "two\n")

	res, err := p.cat(context.Background(), request(dir, []string{"a.txt", "b.txt"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", res.Stdout)

	_, err = p.cat(context.Background(), request(dir, []string{"missing.txt"}, nil))
	assert.Equal(t, shell.KindNotFound, shell.KindOf(err))
}

func TestTouchCreatesAndUpdates(t *testing.T) {
	p := New()
	dir := t.TempDir()

	res, err := p.touch(context.Background(), request(dir, []string{"new.txt"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Created file: new.txt", res.Stdout)
	assert.FileExists(t, filepath.Join(dir, "new.txt"))

	res, err = p.touch(context.Background(), request(dir, []string{"new.txt"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Updated: new.txt", res.Stdout)
}

func TestStatReportsMetadata(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc.txt"), "plain text content\n")

	res, err := p.stat(context.Background(), request(dir, []string{"doc.txt"}, nil))
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "Type: file")
	assert.Contains(t, res.Stdout, "Size:")
	assert.Contains(t, res.Stdout, "MIME: text/plain")
}

func TestFindGlobAndSubstring(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report.log"), "")
	writeFile(t, filepath.Join(dir, "report.txt"), "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub", "notes.txt"), "")

	res, err := p.find(context.Background(), request(dir, []string{"*.log"}, nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.log"), res.Stdout)

	res, err = p.find(context.Background(), request(dir, []string{"notes"}, nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "notes.txt"), res.Stdout)

	res, err = p.find(context.Background(), request(dir, []string{"absent"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "No files found matching 'absent'", res.Stdout)
}

func TestFindDoublestarPattern(t *testing.T) {
	p := New()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	writeFile(t, filepath.Join(dir, "a", "b", "deep.txt"), "")

	res, err := p.find(context.Background(), request(dir, []string{"**/deep.txt"}, nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b", "deep.txt"), res.Stdout)
}

func TestGrepLineOutput(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "log.txt"), "alpha\nneedle here\ngamma\nneedle again\n")

	res, err := p.grep(context.Background(), request(dir, []string{"needle", "log.txt"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "log.txt:2:needle here\nlog.txt:4:needle again", res.Stdout)

	res, err = p.grep(context.Background(), request(dir, []string{"absent", "log.txt"}, nil))
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "No matches found")
}

func TestDuSumsSizes(t *testing.T) {
	p := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), strings.Repeat("x", 600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub", "b"), strings.Repeat("x", 424))

	res, err := p.du(context.Background(), request(dir, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "Total size of '.': 1.0 KB", res.Stdout)
}

func TestResolveTildeAndRelative(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), resolve("/tmp", "~/x"))
	assert.Equal(t, "/tmp/a/b", resolve("/tmp", "a/b"))
	assert.Equal(t, "/etc", resolve("/tmp", "/etc"))
	assert.Equal(t, "/tmp", resolve("/tmp/a", ".."))
}
