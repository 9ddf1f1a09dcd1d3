package kythe

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func factLine(sig, path, factName, factValue string) string {
	return fmt.Sprintf(`{"source":{"signature":%q,"path":%q,"language":"verilog","root":"","corpus":""},"fact_name":%q,"fact_value":%q}`,
		sig, path, factName, b64(factValue))
}

func edgeLine(srcSig, srcPath, tgtSig, tgtPath, edgeKind string) string {
	return fmt.Sprintf(`{"source":{"signature":%q,"path":%q,"language":"verilog","root":"","corpus":""},"target":{"signature":%q,"path":%q,"language":"verilog","root":"","corpus":""},"edge_kind":%q,"fact_name":"/"}`,
		srcSig, srcPath, tgtSig, tgtPath, edgeKind)
}

func TestDecode_FileAnchorSymbolAndEdges(t *testing.T) {
	lines := []string{
		factLine("file-sig", "m.sv", "/kythe/node/kind", "file"),
		factLine("file-sig", "m.sv", "/kythe/text", "module m; wire a; endmodule"),
		"",
		factLine("anchor-sig-1", "m.sv", "/kythe/node/kind", "anchor"),
		factLine("anchor-sig-1", "m.sv", "/kythe/loc/start", "17"),
		factLine("anchor-sig-1", "m.sv", "/kythe/loc/end", "18"),
		factLine("sym-a", "m.sv", "/kythe/node/kind", "variable"),
		factLine("sym-a", "m.sv", "/kythe/subkind", "wire"),
		edgeLine("anchor-sig-1", "m.sv", "sym-a", "m.sv", "/kythe/edge/defines/binding"),
		factLine("anchor-sig-2", "m.sv", "/kythe/node/kind", "anchor"),
		factLine("anchor-sig-2", "m.sv", "/kythe/loc/start", "24"),
		factLine("anchor-sig-2", "m.sv", "/kythe/loc/end", "25"),
		edgeLine("anchor-sig-2", "m.sv", "sym-a", "m.sv", "/kythe/edge/ref"),
		edgeLine("sym-a", "m.sv", "sym-parent", "m.sv", "/kythe/edge/childof"),
	}
	r := strings.NewReader(strings.Join(lines, "\n"))

	var records []*Record
	err := Decode(r, testLogger(), func(rec *Record) error {
		cp := *rec
		cp.Facts = make(map[string]string, len(rec.Facts))
		for k, v := range rec.Facts {
			cp.Facts[k] = v
		}
		records = append(records, &cp)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, records, 6)

	fileRec := records[0]
	require.True(t, fileRec.IsFile())
	require.Equal(t, "module m; wire a; endmodule", fileRec.Facts["/kythe/text"])

	anchorRec := records[1]
	require.True(t, anchorRec.IsAnchor())
	require.False(t, anchorRec.IsEdge())
	require.Equal(t, "17", anchorRec.Facts["/kythe/loc/start"])
	require.Equal(t, "18", anchorRec.Facts["/kythe/loc/end"])

	symRec := records[2]
	require.True(t, symRec.IsSymbol())
	require.Equal(t, "wire", symRec.SymbolType())

	definesRec := records[3]
	require.True(t, definesRec.IsEdge())
	require.False(t, definesRec.IsAnchor())
	require.Equal(t, "/defines/binding", definesRec.EdgeKind)
	require.Equal(t, "sym-a", definesRec.Target.Signature)

	// The second anchor's own coordinate facts and its outgoing /ref edge
	// share one source signature and arrive contiguously, so they merge into
	// a single logical record that is simultaneously an anchor and an edge.
	anchorAndRefRec := records[4]
	require.True(t, anchorAndRefRec.IsAnchor())
	require.True(t, anchorAndRefRec.IsEdge())
	require.Equal(t, "24", anchorAndRefRec.Facts["/kythe/loc/start"])
	require.Equal(t, "/ref", anchorAndRefRec.EdgeKind)
	require.Equal(t, "sym-a", anchorAndRefRec.Target.Signature)

	childOfRec := records[5]
	require.True(t, childOfRec.IsEdge())
	require.Equal(t, "/childof", childOfRec.EdgeKind)
	require.Equal(t, "sym-parent", childOfRec.Target.Signature)
}

func TestDecode_MalformedLineIsSkipped(t *testing.T) {
	lines := []string{
		"{not valid json",
		factLine("file-sig", "m.sv", "/kythe/node/kind", "file"),
	}
	r := strings.NewReader(strings.Join(lines, "\n"))

	var records []*Record
	err := Decode(r, testLogger(), func(rec *Record) error {
		records = append(records, rec)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].IsFile())
}

func TestDecode_InvalidBase64FactIsDropped(t *testing.T) {
	line := `{"source":{"signature":"s","path":"m.sv"},"fact_name":"/kythe/node/kind","fact_value":"not-base64!!"}`
	r := strings.NewReader(line)

	var records []*Record
	err := Decode(r, testLogger(), func(rec *Record) error {
		records = append(records, rec)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	_, ok := records[0].Facts["/kythe/node/kind"]
	require.False(t, ok)
}
