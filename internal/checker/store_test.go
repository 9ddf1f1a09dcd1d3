package checker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticStore_ReplaceAndErrorCount(t *testing.T) {
	s := NewDiagnosticStore()
	require.False(t, s.HasErrors())

	s.Replace(map[string][]Diagnostic{
		"file:///a.sv": {
			{Severity: SeverityError, Message: "bad token"},
			{Severity: SeverityWarning, Message: "style"},
		},
		"file:///b.sv": {
			{Severity: SeverityError, Message: "bad token"},
		},
	})
	require.Equal(t, 2, s.ErrorCount())
	require.True(t, s.HasErrors())
	require.Len(t, s.ForFile("file:///a.sv"), 2)
}

func TestDiagnosticStore_ClearFile(t *testing.T) {
	s := NewDiagnosticStore()
	s.Replace(map[string][]Diagnostic{
		"file:///a.sv": {{Severity: SeverityError}},
		"file:///b.sv": {{Severity: SeverityError}},
	})
	require.Equal(t, 2, s.ErrorCount())

	s.ClearFile("file:///a.sv")
	require.Equal(t, 1, s.ErrorCount())
	require.Empty(t, s.ForFile("file:///a.sv"))
	require.Len(t, s.ForFile("file:///b.sv"), 1)
}

func TestDiagnosticStore_ReplaceDropsStaleFiles(t *testing.T) {
	s := NewDiagnosticStore()
	s.Replace(map[string][]Diagnostic{
		"file:///a.sv": {{Severity: SeverityError}},
	})
	require.Equal(t, 1, s.ErrorCount())

	// A second replace that no longer mentions a.sv must clear its stale
	// entry, not just stop counting it.
	s.Replace(map[string][]Diagnostic{
		"file:///b.sv": {{Severity: SeverityWarning}},
	})
	require.Equal(t, 0, s.ErrorCount())
	require.Empty(t, s.ForFile("file:///a.sv"))
}

func TestDiagnosticStore_UpdateFileLeavesOthersAlone(t *testing.T) {
	s := NewDiagnosticStore()
	s.Replace(map[string][]Diagnostic{
		"file:///a.sv": {{Severity: SeverityError}},
		"file:///b.sv": {{Severity: SeverityError}},
	})

	s.UpdateFile("file:///a.sv", nil)
	require.Equal(t, 1, s.ErrorCount())
	require.Empty(t, s.ForFile("file:///a.sv"))
	require.Len(t, s.ForFile("file:///b.sv"), 1)

	s.UpdateFile("file:///a.sv", []Diagnostic{{Severity: SeverityError}, {Severity: SeverityWarning}})
	require.Equal(t, 2, s.ErrorCount())
	require.Len(t, s.ForFile("file:///a.sv"), 2)
}

func TestDiagnosticStore_Clear(t *testing.T) {
	s := NewDiagnosticStore()
	s.Replace(map[string][]Diagnostic{
		"file:///a.sv": {{Severity: SeverityError}},
		"file:///b.sv": {{Severity: SeverityError}},
	})
	s.Clear()
	require.Equal(t, 0, s.ErrorCount())
}
