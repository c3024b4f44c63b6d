package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountEffective_NoConditions(t *testing.T) {
	records, err := ParseBytes("plain.slt", []byte(sampleScriptNoConditions))
	require.NoError(t, err)

	// Every statement and query counts under any label
	for _, label := range []string{"sqlite", "postgres", "anything"} {
		assert.Equal(t, int64(4), CountEffective(records, label), "label %s", label)
	}
}

const sampleScriptNoConditions = `statement ok
CREATE TABLE t(a INT)

statement ok
INSERT INTO t VALUES (1)

# comment
query I
SELECT a FROM t
----
1

halt

query I
SELECT 2
----
2
`

func TestEffectiveUnder(t *testing.T) {
	tests := []struct {
		name       string
		conditions []Condition
		effective  bool
	}{
		{name: "no conditions", effective: true},
		{name: "skipif label", conditions: []Condition{{SkipIf, "sqlite"}}, effective: false},
		{name: "skipif other label", conditions: []Condition{{SkipIf, "postgres"}}, effective: true},
		{name: "onlyif label", conditions: []Condition{{OnlyIf, "sqlite"}}, effective: true},
		{name: "onlyif other label", conditions: []Condition{{OnlyIf, "postgres"}}, effective: true},
		// onlyif is an independent alternative to the skipif check, so both
		// together still count
		{name: "skipif and onlyif label", conditions: []Condition{{SkipIf, "sqlite"}, {OnlyIf, "sqlite"}}, effective: true},
		{name: "onlyif then skipif", conditions: []Condition{{OnlyIf, "sqlite"}, {SkipIf, "sqlite"}}, effective: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Kind: KindQuery, Conditions: tt.conditions}
			assert.Equal(t, tt.effective, rec.EffectiveUnder("sqlite"))
		})
	}
}

func TestCountEffectiveRecords(t *testing.T) {
	content := `skipif sqlite
statement ok
CREATE TABLE only_elsewhere(a INT)

skipif sqlite
onlyif sqlite
statement ok
CREATE TABLE both(a INT)

statement ok
CREATE TABLE t(a INT)
`
	path := filepath.Join(t.TempDir(), "conditions.slt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	count, err := CountEffectiveRecords(path, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = CountEffectiveRecords(path, "postgres")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = CountEffectiveRecords(filepath.Join(t.TempDir(), "nope.slt"), "sqlite")
	assert.Error(t, err)
}
