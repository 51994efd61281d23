package metadata

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_Empty(t *testing.T) {
	var o Object
	assert.Equal(t, 0, o.Len())
	assert.True(t, o.IsEmpty())
	_, ok := o.Get("a")
	assert.False(t, ok)
	assert.Nil(t, o.Keys())
	for range o.All() {
		t.Fatal("empty object must not yield")
	}

	empty, err := NewObject()
	require.NoError(t, err)
	assert.True(t, empty.Equal(o))
}

func TestObject_SortedInvariant(t *testing.T) {
	keys := []string{"zeta", "alpha", "Beta", "beta", "_x", "a1", "a10", "a2", "ä", "", "m"}
	b := NewObjectBuilder(2)
	defer b.Release()
	for i, k := range keys {
		require.NoError(t, b.Add(k, Int64(int64(i))))
	}
	obj, err := b.Build()
	require.NoError(t, err)

	got := obj.Keys()
	require.Len(t, got, len(keys))
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i], "keys must be strictly ascending")
	}

	for i, k := range keys {
		v, ok := obj.Get(k)
		require.True(t, ok, k)
		assert.True(t, v.Equal(Int64(int64(i))), k)
	}
}

func TestObject_DuplicateKeys(t *testing.T) {
	_, err := NewObject(Pair("a", Int64(1)), Pair("a", Int64(2)))
	require.ErrorIs(t, err, ErrDuplicateKey)

	var ke *KeyError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "a", ke.Key)

	assert.Panics(t, func() { MustObject(Pair("a", Null()), Pair("a", Null())) })
}

func TestObject_TypedGetters(t *testing.T) {
	inner := MustObject(Pair("n", Int64(1)))
	o := MustObject(
		Pair("s", String("x")),
		Pair("i", Int64(2)),
		Pair("d", Double(2.5)),
		Pair("b", Bool(true)),
		Pair("o", FromObject(inner)),
		Pair("a", FromArray(NewArray(Null()))),
	)

	s, ok := o.GetString("s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	i, ok := o.GetInt64("i")
	assert.True(t, ok)
	assert.Equal(t, int64(2), i)
	d, ok := o.GetDouble("d")
	assert.True(t, ok)
	assert.Equal(t, 2.5, d)
	bv, ok := o.GetBool("b")
	assert.True(t, ok)
	assert.True(t, bv)
	nested, ok := o.GetObject("o")
	assert.True(t, ok)
	assert.True(t, nested.Equal(inner))
	arr, ok := o.GetArray("a")
	assert.True(t, ok)
	assert.Equal(t, 1, arr.Len())

	_, ok = o.GetString("i")
	assert.False(t, ok)
	_, ok = o.GetInt64("missing")
	assert.False(t, ok)
	assert.True(t, o.Has("d"))
	assert.False(t, o.Has("D"))
}

func TestObject_IndexedLookup(t *testing.T) {
	for _, n := range []int{indexThreshold, indexThreshold + 1, 64, 257} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			entries := make([]Entry, n)
			for i := range entries {
				entries[i] = Pair(fmt.Sprintf("key-%03d", i), Int64(int64(i)))
			}
			obj := MustObject(entries...)

			for i := range entries {
				v, ok := obj.Get(entries[i].Key)
				require.True(t, ok)
				got, _ := v.AsInt64()
				require.Equal(t, int64(i), got)
			}
			assert.False(t, obj.Has("key-999"))
			assert.False(t, obj.Has(""))
		})
	}
}

func TestObject_ConcurrentIndexBuild(t *testing.T) {
	entries := make([]Entry, 32)
	for i := range entries {
		entries[i] = Pair(fmt.Sprintf("k%d", i), Int64(int64(i)))
	}
	obj := MustObject(entries...)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range entries {
				v, ok := obj.Get(entries[i].Key)
				if !ok || !v.Equal(entries[i].Value) {
					t.Errorf("lookup %s failed", entries[i].Key)
				}
			}
		}()
	}
	wg.Wait()
}

func TestObject_With(t *testing.T) {
	base := MustObject(Pair("a", Int64(1)), Pair("c", Int64(3)))

	added := base.With("b", Int64(2))
	assert.Equal(t, []string{"a", "b", "c"}, added.Keys())
	assert.Equal(t, 2, base.Len(), "original unchanged")

	replaced := base.With("a", String("x"))
	v, _ := replaced.Get("a")
	assert.True(t, v.Equal(String("x")))

	multi := base.WithEntries(Pair("z", Null()), Pair("a", Int64(9)), Pair("z", Bool(true)))
	assert.Equal(t, []string{"a", "c", "z"}, multi.Keys())
	z, _ := multi.Get("z")
	assert.True(t, z.Equal(Bool(true)), "later entries win")

	assert.True(t, base.WithEntries().Equal(base))

	without := multi.Without("a", "nope")
	assert.Equal(t, []string{"c", "z"}, without.Keys())
}

func TestObject_AnnotationProjection(t *testing.T) {
	o := MustObject(
		Pair("body", String("b", SerializeInHTTPBody)),
		Pair("both", String("x", SerializeInHTTPBody, SerializeAsCloudEventExtension)),
		Pair("ext", Int64(1, SerializeAsCloudEventExtension)),
		Pair("none", Null()),
	)

	assert.True(t, o.HasAnyAnnotated(SerializeAsCloudEventExtension))
	assert.False(t, o.HasAnyAnnotated(SerializeInHTTPHeader))

	ext := o.Filter(SerializeAsCloudEventExtension)
	assert.Equal(t, []string{"both", "ext"}, ext.Keys())
	assert.True(t, o.Filter(SerializeInHTTPHeader).IsEmpty())
	assert.True(t, o.Filter(AnnotationNone).Equal(o))

	reannotated := o.WithAnnotation(SerializeInCloudEventData)
	for _, v := range reannotated.All() {
		assert.Equal(t, SerializeInCloudEventData, v.Annotation())
	}
}

func TestObject_Entries(t *testing.T) {
	o := MustObject(Pair("b", Int64(2)), Pair("a", Int64(1)))
	entries := o.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "b", o.At(1).Key)

	keys := slices.Collect(func(yield func(string) bool) {
		for k := range o.All() {
			if !yield(k) {
				return
			}
		}
	})
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestArray(t *testing.T) {
	var empty Array
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.Values())

	src := []Value{Int64(1), Int64(2)}
	arr := NewArray(src...)
	src[0] = Int64(99)
	assert.True(t, arr.At(0).Equal(Int64(1)), "array owns its storage")

	b := NewArrayBuilder(1)
	for i := 0; i < 10; i++ {
		require.NoError(t, b.Append(Int64(int64(i))))
	}
	assert.Equal(t, 10, b.Len())
	built, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 10, built.Len())
	for i, v := range built.All() {
		assert.True(t, v.Equal(Int64(int64(i))))
	}

	require.ErrorIs(t, b.Append(Null()), ErrBuilderConsumed)
	_, err = b.Build()
	require.ErrorIs(t, err, ErrBuilderConsumed)
	b.Release()
}
