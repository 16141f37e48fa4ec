package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callgraph/internal/testutil"
)

// runCLI executes the root command against saved tool output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	readelfReport, objdumpReport := testutil.WriteReports(t)
	t.Setenv("CALLGRAPH_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args,
		"--readelf-report", readelfReport,
		"--objdump-report", objdumpReport,
	))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestCallers(t *testing.T) {
	out, err := runCLI(t, "callers", "prog", "--root", "get_oid", "--target", "die")
	require.NoError(t, err)
	assert.Equal(t, "callers of 'die' reachable from 'get_oid': lookup\n", out)
}

func TestCallers_DefaultsToEntryFunction(t *testing.T) {
	out, err := runCLI(t, "callers", "prog")
	require.NoError(t, err)
	assert.Equal(t, "callers of 'die' reachable from '_start': lookup, usage\n", out)
}

func TestCallers_JSON(t *testing.T) {
	out, err := runCLI(t, "callers", "prog", "-r", "_start", "-t", "lookup", "-o", "json")
	require.NoError(t, err)

	var report struct {
		Root      string   `json:"root"`
		Target    string   `json:"target"`
		Reachable int      `json:"reachable"`
		Callers   []string `json:"callers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "_start", report.Root)
	assert.Equal(t, 4, report.Reachable)
	assert.Equal(t, []string{"get_oid"}, report.Callers)
}

func TestCallers_NoMatchesPrintsEmptyList(t *testing.T) {
	out, err := runCLI(t, "callers", "prog", "--root", "usage", "--target", "get_oid")
	require.NoError(t, err)
	assert.Equal(t, "callers of 'get_oid' reachable from 'usage': \n", out)
}

func TestCallees(t *testing.T) {
	out, err := runCLI(t, "callees", "prog", "_start")
	require.NoError(t, err)
	assert.Equal(t, "get_oid\nusage\n", out)

	out, err = runCLI(t, "callees", "prog", "get_oid", "--transitive")
	require.NoError(t, err)
	assert.Equal(t, "die\nget_oid\nlookup\n", out)
}

func TestTree(t *testing.T) {
	out, err := runCLI(t, "tree", "prog")
	require.NoError(t, err)
	assert.Equal(t, `_start
├─ get_oid
│ ├─ get_oid ↺ recursive
│ └─ lookup
│   └─ die
└─ usage
  └─ die
`, out)

	_, err = runCLI(t, "tree", "prog", "--depth", "0")
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	out, err := runCLI(t, "lookup", "prog", "0x401130", "0x401000", "-o", "json")
	require.NoError(t, err)

	var rows []lookupRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []lookupRow{
		{Address: "0x401130", Symbol: "lookup", Found: true},
		{Address: "0x401000", Symbol: "", Found: false},
	}, rows)

	_, err = runCLI(t, "lookup", "prog", "xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestStats(t *testing.T) {
	out, err := runCLI(t, "stats", "prog", "-o", "json")
	require.NoError(t, err)

	var st statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "0x401020", st.EntryPoint)
	assert.Equal(t, "_start", st.EntryFunction)
	assert.Equal(t, 5, st.Symbols)
	assert.Equal(t, 6, st.Instructions)
	assert.Equal(t, 6, st.Edges)
	assert.Equal(t, 5, st.Nodes)
	assert.Len(t, st.Fingerprint, 16)
}

func TestEdges(t *testing.T) {
	out, err := runCLI(t, "edges", "prog", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, `Caller,Callee
_start,get_oid
_start,usage
get_oid,get_oid
get_oid,lookup
lookup,die
usage,die
`, out)

	dotPath := filepath.Join(t.TempDir(), "prog.dot")
	out, err = runCLI(t, "edges", "prog", "-o", "dot", "--out", dotPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"lookup" -> "die";`)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := runCLI(t, "callers", "prog", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestInvalidBackend(t *testing.T) {
	_, err := runCLI(t, "stats", "prog", "--backend", "ghidra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend")
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "callgraph version")
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0x401130", want: 0x401130},
		{in: "4198400", want: 4198400},
		{in: "0755", want: 0o755},
		{in: "0xzz", wantErr: true},
		{in: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAddress(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteStatsText(t *testing.T) {
	var buf bytes.Buffer
	st := statsOutput{Binary: "prog", Backend: "tools", Fingerprint: "00000000deadbeef"}
	st.Symbols = 3
	st.Instructions = 4
	st.Unresolved = 1

	require.NoError(t, writeStatsText(&buf, st))
	out := buf.String()
	assert.Contains(t, out, "Entry point:   -\n")
	assert.Contains(t, out, "Call sites:    4 (1 unresolved, 0 duplicate)\n")
	assert.Contains(t, out, "Fingerprint:   00000000deadbeef\n")
}
