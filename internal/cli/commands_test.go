package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/infospace/internal/ir"
	"github.com/roach88/infospace/internal/testutil"
)

// run executes the CLI against a file store rooted at dir.
func run(t *testing.T, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--data-dir", dir}, args...)
	code = Execute(context.Background(), full, &out, &errOut)
	return out.String(), errOut.String(), code
}

// mustRun is run that fails the test on a non-zero exit code.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, errOut, code := run(t, dir, args...)
	require.Equal(t, ExitSuccess, code, "stderr: %s", errOut)
	return out
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestAdd_DerivesID(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "add", "alice", "bob")
	want := ir.NewTriple("alice", "bob")
	assert.Equal(t, want.FormatLine()+"\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "spaces", "default", "info_tables", "main_table"))
	require.NoError(t, err)
	assert.Equal(t, want.FormatLine()+"\n", string(data))
}

func TestAdd_ExplicitID(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "add", "--id", "e1", "--table", "graph", "a", "b")

	out := mustRun(t, dir, "list", "graph")
	assert.Equal(t, "e1 a b\n", out)
}

func TestAdd_TableRequiresID(t *testing.T) {
	_, stderr, code := run(t, t.TempDir(), "add", "--table", "graph", "a", "b")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "--table requires --id")
}

func TestAdd_InvalidTriple(t *testing.T) {
	_, stderr, code := run(t, t.TempDir(), "add", "--id", "bad id", "a", "b")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, ErrCodeInvalid)
	assert.Contains(t, stderr, "must not contain spaces")
}

func TestNode(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "node", "n1")
	assert.Equal(t, "n1 n1 n1\n", out)
}

func TestList_Views(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--id", "e2", "--table", "g", "b", "c")
	mustRun(t, dir, "add", "--id", "e1", "--table", "g", "a", "b")

	assert.Equal(t, []string{"e2 b c", "e1 a b"}, lines(mustRun(t, dir, "list", "g")))
	assert.Equal(t, []string{"e2", "e1"}, lines(mustRun(t, dir, "list", "g", "--ids")))
	assert.Equal(t, []string{"a", "b", "c", "e1", "e2"}, lines(mustRun(t, dir, "list", "g", "--all-ids")))
	assert.Equal(t, []string{"a", "b", "c"}, lines(mustRun(t, dir, "list", "g", "--refs")))
}

func TestList_MissingTableIsEmpty(t *testing.T) {
	out := mustRun(t, t.TempDir(), "list", "nothing")
	assert.Empty(t, out)
}

func TestNeighbors(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "alice", "bob")
	mustRun(t, dir, "add", "carol", "alice")

	out := mustRun(t, dir, "neighbors", "alice")
	assert.Equal(t, []string{"bob", "carol"}, lines(out))
}

func TestNeighbors_ExceptDecorated(t *testing.T) {
	dir := t.TempDir()
	tagged := ir.NewTriple("alice", "bob")
	plain := ir.NewTriple("alice", "carol")
	mustRun(t, dir, "add", "alice", "bob")
	mustRun(t, dir, "add", "alice", "carol")
	mustRun(t, dir, "add", tagged.ID, "hidden")

	out := mustRun(t, dir, "neighbors", "alice", "--except-decorated", "hidden")
	assert.Equal(t, []string{plain.FormatLine()}, lines(out))

	out = mustRun(t, dir, "neighbors", "alice", "--except-decorated", "hidden", "--not", "carol")
	assert.Empty(t, lines(out))
}

func TestNeighbors_NotRequiresExceptDecorated(t *testing.T) {
	_, _, code := run(t, t.TempDir(), "neighbors", "alice", "--not", "bob")
	assert.Equal(t, ExitCommandError, code)
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--id", "e1", "--table", "g", "alice", "bob")
	mustRun(t, dir, "add", "--id", "e2", "--table", "g", "carol", "dave")

	out := mustRun(t, dir, "select", "alice", "--table", "g")
	assert.Equal(t, "e1 alice bob\n", out)

	out = mustRun(t, dir, "select", "alice", "--table", "g", "--neighbor-ids")
	assert.Equal(t, "bob\n", out)
}

func TestSelect_TokenMatch(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--id", "e1", "--table", "g", "ab", "c")
	mustRun(t, dir, "add", "--id", "e2", "--table", "g", "xaby", "c")

	assert.Len(t, lines(mustRun(t, dir, "select", "ab", "--table", "g")), 2)
	assert.Equal(t, []string{"e1 ab c"}, lines(mustRun(t, dir, "--match", "token", "select", "ab", "--table", "g")))
}

func TestFlatten(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--id", "e2", "--table", "t1", "b", "c")
	mustRun(t, dir, "add", "--id", "e1", "--table", "t2", "a", "b")
	mustRun(t, dir, "add", "--id", "e2", "--table", "t2", "b", "c")

	out := mustRun(t, dir, "flatten", "t1", "t2")
	assert.Equal(t, []string{"e1 a b", "e2 b c"}, lines(out))
}

func TestFlatten_RejectConflict(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--id", "e1", "--table", "t1", "a", "b")
	mustRun(t, dir, "add", "--id", "e1", "--table", "t2", "a", "c")

	out := mustRun(t, dir, "flatten", "t1", "t2")
	assert.Equal(t, "e1 a b\n", out)

	_, stderr, code := run(t, dir, "--duplicate-policy", "reject_conflict", "flatten", "t1", "t2")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, ErrCodeConflict)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "alice", "bob")
	mustRun(t, dir, "clear")

	assert.Empty(t, mustRun(t, dir, "list"))
}

func TestClear_MissingTable(t *testing.T) {
	_, stderr, code := run(t, t.TempDir(), "clear", "never_created")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "clear on missing table")
}

func TestInSpace_Isolation(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--in-space", "guest", "alice", "bob")

	assert.Empty(t, mustRun(t, dir, "list"))
	assert.Len(t, lines(mustRun(t, dir, "list", "--in-space", "guest")), 1)
	assert.Len(t, lines(mustRun(t, dir, "--space", "guest", "list")), 1)
}

func TestSpaceNew(t *testing.T) {
	dir := t.TempDir()
	opts := &RootOptions{SpaceIDs: testutil.NewFixedSpaceIDs("space-1")}
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data-dir", dir, "space", "new", "--init"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "space-1\n", out.String())
	assert.FileExists(t, filepath.Join(dir, "spaces", "space-1", "info_tables", "main_table"))
}

func TestSpaceCurrent(t *testing.T) {
	out := mustRun(t, t.TempDir(), "--space", "work", "space", "current")
	assert.Equal(t, "work\n", out)
}

func TestJSONOutput(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "--format", "json", "add", "--id", "e1", "a", "b")

	var resp struct {
		Status string    `json:"status"`
		Data   ir.Triple `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ir.Triple{ID: "e1", ID1: "a", ID2: "b"}, resp.Data)
}

func TestJSONError(t *testing.T) {
	out, _, code := run(t, t.TempDir(), "--format", "json", "add", "--id", "bad id", "a", "b")
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)
}

func TestInvalidConfig(t *testing.T) {
	_, stderr, code := run(t, t.TempDir(), "--backend", "postgres", "list")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, ErrCodeConfig)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("space: from_file\ndefault_table: edges\n"), 0o600))

	mustRun(t, dir, "--config", cfgPath, "add", "a", "b")
	assert.FileExists(t, filepath.Join(dir, "spaces", "from_file", "info_tables", "edges"))
}

func TestMemoryBackend(t *testing.T) {
	out := mustRun(t, t.TempDir(), "--backend", "memory", "node", "n1")
	assert.Equal(t, "n1 n1 n1\n", out)
}

func TestWatch_RequiresFileBackend(t *testing.T) {
	_, stderr, code := run(t, t.TempDir(), "--backend", "memory", "watch")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "watch requires the file backend")
}

func TestWatch_FromStart(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add", "--id", "e1", "a", "b")

	out := mustRun(t, dir, "watch", "--from-start", "--limit", "1")
	assert.Equal(t, "main_table: e1 a b\n", out)
}

func TestScenario_Pass(t *testing.T) {
	out := mustRun(t, t.TempDir(), "scenario",
		"--golden-dir", "../harness/testdata/golden",
		"../harness/testdata/scenarios")
	assert.Contains(t, out, "PASS decoration")
	assert.Contains(t, out, "PASS guest_space")
	assert.Contains(t, out, "2 passed, 0 failed")
}

func TestScenario_Fail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: broken
steps:
  - {op: create, id1: a, id2: b}
assertions:
  - type: table_count
    table: main_table
    count: 2
`), 0o600))

	out, stderr, code := run(t, dir, "scenario", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "FAIL broken")
	assert.Contains(t, stderr, ErrCodeScenarios)
}

func TestScenario_UpdateGolden(t *testing.T) {
	dir := t.TempDir()
	golden := filepath.Join(dir, "golden")

	mustRun(t, dir, "scenario", "--golden-dir", golden, "--update", "../harness/testdata/scenarios/decoration.yaml")
	want, err := os.ReadFile("../harness/testdata/golden/decoration.golden")
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(golden, "decoration.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestScenario_UpdateRequiresGoldenDir(t *testing.T) {
	_, _, code := run(t, t.TempDir(), "scenario", "--update", "x.yaml")
	assert.Equal(t, ExitCommandError, code)
}
