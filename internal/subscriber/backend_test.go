package subscriber

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("mem", strings.NewReader("1\n2\r\n\n3"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestParseIDs_Corrupt(t *testing.T) {
	ids, err := ParseIDs("mem", strings.NewReader("1\nfoo\n2\n1.5"))
	assert.Equal(t, []int64{1, 2}, ids)

	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, []string{`"foo"`, `"1.5"`}, corrupt.Entries)
	assert.Contains(t, corrupt.Error(), "skipped 2 malformed entries")
}

func TestFormatIDs(t *testing.T) {
	assert.Equal(t, "", FormatIDs(nil))
	assert.Equal(t, "10\n-20", FormatIDs([]int64{10, -20}))
}
