package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/syllabus-auditor/internal/kv"
)

func TestLoad_EmptyForUnknownUser(t *testing.T) {
	l := New(kv.NewMemoryStore())
	assert.Empty(t, l.Load("nobody"))
}

func TestLoad_CorruptRecordDegradesToEmpty(t *testing.T) {
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(kv.LedgerKey("u1"), []byte("not json")))

	l := New(mem)
	assert.Empty(t, l.Load("u1"))
}

func TestMerge_AccumulatesAcrossCalls(t *testing.T) {
	l := New(kv.NewMemoryStore())

	set, err := l.Merge("u1", "dbt")
	require.NoError(t, err)
	assert.True(t, set["dbt"])

	set, err = l.Merge("u1", "SQL Windowing", "A/B Testing")
	require.NoError(t, err)
	assert.Len(t, set, 3)

	reloaded := l.Load("u1")
	assert.True(t, reloaded["dbt"])
	assert.True(t, reloaded["SQL Windowing"])
	assert.True(t, reloaded["A/B Testing"])
}

func TestMerge_Idempotent(t *testing.T) {
	mem := kv.NewMemoryStore()
	l := New(mem)

	_, err := l.Merge("u1", "dbt")
	require.NoError(t, err)
	before, ok, err := mem.Get(kv.LedgerKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)

	_, err = l.Merge("u1", "dbt")
	require.NoError(t, err)
	after, ok, err := mem.Get(kv.LedgerKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, string(before), string(after))
}

func TestMerge_UsersAreIsolated(t *testing.T) {
	l := New(kv.NewMemoryStore())

	_, err := l.Merge("u1", "dbt")
	require.NoError(t, err)

	assert.Empty(t, l.Load("u2"))
}

func TestIntersect_PreservesInputOrder(t *testing.T) {
	l := New(kv.NewMemoryStore())
	_, err := l.Merge("u1", "dbt", "Kafka")
	require.NoError(t, err)

	matched := l.Intersect("u1", []string{"SQL Windowing", "Kafka", "dbt"})
	assert.Equal(t, []string{"Kafka", "dbt"}, matched)
}
