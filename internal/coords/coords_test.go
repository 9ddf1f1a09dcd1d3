package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "module m;\nwire a;\nassign a = a;\nendmodule"

func TestPositionFromOffset(t *testing.T) {
	cases := []struct {
		name     string
		offset   int
		wantLine int
		wantChar int
		wantOK   bool
	}{
		{"start of file", 0, 0, 0, true},
		{"newline ending line 0", 9, 0, 9, true},
		{"start of line 1", 10, 1, 0, true},
		{"first a on assign line", 25, 2, 7, true},
		{"second a on assign line", 29, 2, 11, true},
		{"out of range", len(sample) + 1, 0, 0, false},
		{"negative", -1, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line, char, ok := PositionFromOffset(sample, tc.offset)
			require.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.wantLine, line)
			assert.Equal(t, tc.wantChar, char)
		})
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for offset := 0; offset <= len(sample); offset++ {
		line, char, ok := PositionFromOffset(sample, offset)
		require.True(t, ok)
		back, ok := OffsetFromPosition(sample, line, char)
		require.True(t, ok)
		assert.Equal(t, offset, back, "round trip failed for offset %d", offset)
	}
}

func TestOffsetFromPosition_LineOutOfRange(t *testing.T) {
	_, ok := OffsetFromPosition(sample, 99, 0)
	assert.False(t, ok)
}

func TestOffsetFromPosition_CharPastLineEnd(t *testing.T) {
	_, ok := OffsetFromPosition(sample, 0, 999)
	assert.False(t, ok)
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 4, LineCount(sample))
	assert.Equal(t, 1, LineCount(""))
	assert.Equal(t, 1, LineCount("no newline"))
}

func TestLineLength(t *testing.T) {
	length, ok := LineLength(sample, 0)
	require.True(t, ok)
	assert.Equal(t, len("module m;"), length)

	_, ok = LineLength(sample, 99)
	assert.False(t, ok)
}
