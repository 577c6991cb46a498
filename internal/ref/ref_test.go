package ref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	reference := Generate(now)
	parsed, err := Parse(reference)
	require.NoError(t, err)

	assert.Equal(t, 2026, parsed.Year)
	assert.GreaterOrEqual(t, parsed.Seq, 0)
	assert.Less(t, parsed.Seq, 100000)
}

func TestParse(t *testing.T) {
	parsed, err := Parse("MR/2024/00042")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year)
	assert.Equal(t, 42, parsed.Seq)

	for _, raw := range []string{
		"",
		"MR/2024/42",
		"MR/24/00042",
		"mr/2024/00042",
		"MR/2024/000421",
		"XX/2024/00042",
		"MR/2024/00042 ",
	} {
		_, err := Parse(raw)
		assert.Error(t, err, "expected %q to fail", raw)
	}
}
