package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_AddOrReplace(t *testing.T) {
	base := MustObject(Pair("a", Int64(1)), Pair("b", Int64(2)), Pair("c", Int64(3)))
	incoming := MustObject(Pair("c", Int64(30)), Pair("d", Int64(4)))

	merged, err := Merge(base, incoming, AddOrReplace)
	require.NoError(t, err)

	want := MustObject(Pair("a", Int64(1)), Pair("b", Int64(2)), Pair("c", Int64(30)), Pair("d", Int64(4)))
	assert.True(t, merged.Equal(want), merged.String())
}

func TestMerge_PreserveExisting(t *testing.T) {
	base := MustObject(Pair("a", Int64(1)), Pair("c", Int64(3)))
	incoming := MustObject(Pair("c", Int64(30)), Pair("d", Int64(4)))

	merged, err := Merge(base, incoming, PreserveExisting)
	require.NoError(t, err)

	want := MustObject(Pair("a", Int64(1)), Pair("c", Int64(3)), Pair("d", Int64(4)))
	assert.True(t, merged.Equal(want), merged.String())
}

func TestMerge_FailOnConflict(t *testing.T) {
	base := MustObject(Pair("a", Int64(1)), Pair("c", Int64(3)))

	_, err := Merge(base, MustObject(Pair("c", Int64(30))), FailOnConflict)
	require.ErrorIs(t, err, ErrConflict)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "c", ce.Key)
	assert.Contains(t, err.Error(), `"c"`)

	merged, err := Merge(base, MustObject(Pair("d", Int64(4))), FailOnConflict)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Len())
}

func TestMerge_Idempotent(t *testing.T) {
	a := MustObject(
		Pair("k", String("v", SerializeInHTTPHeader)),
		Pair("n", FromObject(MustObject(Pair("x", Int64(1))))),
		Pair("arr", FromArray(NewArray(Int64(1), Int64(2)))),
	)
	for _, s := range []MergeStrategy{AddOrReplace, PreserveExisting} {
		merged, err := Merge(a, a, s)
		require.NoError(t, err)
		assert.True(t, merged.Equal(a), s.String())
	}
}

func TestMerge_NestedObjectsRecurse(t *testing.T) {
	base := MustObject(Pair("trace", FromObject(MustObject(
		Pair("id", String("t1")),
		Pair("span", String("s1")),
	))))
	incoming := MustObject(Pair("trace", FromObject(MustObject(
		Pair("span", String("s2")),
		Pair("sampled", Bool(true)),
	))))

	merged, err := Merge(base, incoming, AddOrReplace)
	require.NoError(t, err)

	trace, ok := merged.GetObject("trace")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "sampled", "span"}, trace.Keys())
	span, _ := trace.GetString("span")
	assert.Equal(t, "s2", span)
	id, _ := trace.GetString("id")
	assert.Equal(t, "t1", id)
}

func TestMerge_ArraysReplacedWholesale(t *testing.T) {
	base := MustObject(Pair("tags", FromArray(NewArray(String("a"), String("b")))))
	incoming := MustObject(Pair("tags", FromArray(NewArray(String("c")))))

	merged, err := Merge(base, incoming, AddOrReplace)
	require.NoError(t, err)

	tags, ok := merged.GetArray("tags")
	require.True(t, ok)
	require.Equal(t, 1, tags.Len())
	assert.True(t, tags.At(0).Equal(String("c")))
}

func TestMerge_ScalarReplacesObject(t *testing.T) {
	base := MustObject(Pair("x", FromObject(MustObject(Pair("y", Int64(1))))))
	incoming := MustObject(Pair("x", Int64(5)))

	merged, err := Merge(base, incoming, AddOrReplace)
	require.NoError(t, err)
	v, _ := merged.Get("x")
	assert.True(t, v.Equal(Int64(5)))
}

func TestMerge_ShortCircuits(t *testing.T) {
	a := MustObject(Pair("a", Int64(1)))

	merged, err := Merge(a, Object{}, FailOnConflict)
	require.NoError(t, err)
	assert.Same(t, a.d, merged.d)

	merged, err = Merge(Object{}, a, FailOnConflict)
	require.NoError(t, err)
	assert.Same(t, a.d, merged.d)
}

func TestMergeIfNeeded(t *testing.T) {
	a := MustObject(Pair("a", Int64(1)))

	out, changed, err := MergeIfNeeded(a, Object{}, AddOrReplace)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, out.Equal(a))

	out, changed, err = MergeIfNeeded(a, a, AddOrReplace)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, out.Equal(a))

	out, changed, err = MergeIfNeeded(a, MustObject(Pair("a", Int64(2))), PreserveExisting)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, out.Equal(a))

	out, changed, err = MergeIfNeeded(a, MustObject(Pair("b", Int64(2))), AddOrReplace)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"a", "b"}, out.Keys())

	_, _, err = MergeIfNeeded(a, a, FailOnConflict)
	require.ErrorIs(t, err, ErrConflict)
}

func TestParseMergeStrategy(t *testing.T) {
	for _, s := range []MergeStrategy{AddOrReplace, PreserveExisting, FailOnConflict} {
		parsed, err := ParseMergeStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseMergeStrategy("bogus")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
