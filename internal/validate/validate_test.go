package validate

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"sltrun/internal/config"
)

func TestTrimEnd(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"abc", "abc"},
		{"abc  ", "abc"},
		{"abc\t\r", "abc"},
		{"  abc", "  abc"},
		{"a  b ", "a  b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TrimEnd(tt.in), "TrimEnd(%q)", tt.in)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name     string
		actual   [][]string
		expected []string
		strict   bool
		sqlite   bool
	}{
		{
			name:     "exact match",
			actual:   [][]string{{"1", "a"}, {"2", "b"}},
			expected: []string{"1 a", "2 b"},
			strict:   true,
			sqlite:   true,
		},
		{
			name:     "trailing whitespace in expected",
			actual:   [][]string{{"1", "a"}},
			expected: []string{"1 a   "},
			strict:   true,
			sqlite:   true,
		},
		{
			name:     "padded inner column",
			actual:   [][]string{{"a  ", "b"}},
			expected: []string{"a b"},
			strict:   false,
			sqlite:   true,
		},
		{
			name:     "leading whitespace differs",
			actual:   [][]string{{"1"}},
			expected: []string{" 1"},
		},
		{
			name:     "single character differs",
			actual:   [][]string{{"10"}},
			expected: []string{"11"},
		},
		{
			name:     "extra actual row",
			actual:   [][]string{{"1"}, {"2"}},
			expected: []string{"1"},
		},
		{
			name:     "missing actual row",
			actual:   [][]string{{"1"}},
			expected: []string{"1", "2"},
		},
		{
			name:     "both empty",
			strict:   true,
			sqlite:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strict, Strict(TrimEnd, tt.actual, tt.expected), "strict")
			assert.Equal(t, tt.sqlite, Sqlite(TrimEnd, tt.actual, tt.expected), "sqlite")
		})
	}
}

func TestStrict_RoundTrip(t *testing.T) {
	actual := [][]string{{"1", "one", "NULL"}, {"2", "(empty)", "3.5"}}
	expected := []string{"1 one NULL", "2 (empty) 3.5"}
	assert.True(t, Strict(TrimEnd, actual, expected))

	for i := range expected {
		for j := range expected[i] {
			mutated := append([]string(nil), expected...)
			b := []byte(mutated[i])
			b[j] ^= 0x01
			mutated[i] = string(b)
			assert.False(t, Strict(TrimEnd, actual, mutated), "mutation at line %d col %d", i, j)
		}
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := logger.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		logger.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	logger.Logger = zerolog.New(&buf)

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	Sqlite(TrimEnd, [][]string{{"1"}}, []string{"2"})
	assert.Empty(t, buf.String(), "sqlite traces at info")

	Strict(TrimEnd, [][]string{{"1"}}, []string{"1", "2"})
	out := buf.String()
	assert.Contains(t, out, "[0] 1<eol>")
	assert.Contains(t, out, "[1] No more results<eol>")
	assert.Contains(t, out, "[1] 2<eol>")
}

func TestColumnValidators(t *testing.T) {
	assert.True(t, ColumnCount("IT", "TT"))
	assert.False(t, ColumnCount("I", "II"))
	assert.True(t, StrictColumns("IT", "IT"))
	assert.False(t, StrictColumns("IT", "TT"))
}

func TestForFile(t *testing.T) {
	cfg := config.New()
	assert.NotNil(t, ForFile(cfg, "sqlite/select1.slt"))

	// Distinguish by behaviour: padded columns only pass under the sqlite policy
	padded := [][]string{{"a ", "b"}}
	expected := []string{"a b"}

	assert.False(t, ForFile(cfg, "sqlite/select1.slt")(TrimEnd, padded, expected))

	cfg.Flags.IncludeSqlite = true
	assert.True(t, ForFile(cfg, "sqlite/select1.slt")(TrimEnd, padded, expected))
	assert.False(t, ForFile(cfg, "select.slt")(TrimEnd, padded, expected))

	cfg.StrictColumnTypes = true
	assert.False(t, ColumnsFor(cfg)("IT", "II"))
	cfg.StrictColumnTypes = false
	assert.True(t, ColumnsFor(cfg)("IT", "II"))
}
