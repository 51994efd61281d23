package metadata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Constructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"int64", Int64(-3), KindInt64},
		{"double", Double(1.25), KindDouble},
		{"string", String("x"), KindString},
		{"array", FromArray(NewArray(Int64(1))), KindArray},
		{"object", FromObject(MustObject(Pair("a", Null()))), KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
			assert.Equal(t, AnnotationNone, tt.v.Annotation())
		})
	}

	var zero Value
	assert.True(t, zero.IsNull())
	assert.True(t, zero.Equal(Null()))
}

func TestValue_Accessors(t *testing.T) {
	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	i, ok := Int64(math.MinInt64).AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(math.MinInt64), i)

	f, ok := Double(-0.5).AsDouble()
	require.True(t, ok)
	assert.Equal(t, -0.5, f)

	s, ok := String("hello").AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = String("1").AsInt64()
	assert.False(t, ok, "no implicit coercion")
	_, ok = Int64(1).AsDouble()
	assert.False(t, ok, "no implicit coercion")
	_, ok = Null().AsObject()
	assert.False(t, ok)
	_, ok = Bool(false).AsArray()
	assert.False(t, ok)
}

func TestAnnotation(t *testing.T) {
	a := SerializeInHTTPBody | SerializeInCloudEventData
	v := String("x", SerializeInHTTPBody, SerializeInCloudEventData)

	assert.Equal(t, a, v.Annotation())
	assert.True(t, v.HasAnnotation(SerializeInHTTPBody))
	assert.True(t, v.HasAnnotation(SerializeInCloudEventData))
	assert.True(t, v.HasAnnotation(a))
	assert.False(t, v.HasAnnotation(SerializeInHTTPHeader))
	assert.False(t, v.HasAnnotation(SerializeInHTTPBody|SerializeInHTTPHeader), "exact bit test")
	assert.True(t, v.HasAnnotation(AnnotationNone))

	replaced := v.WithAnnotation(SerializeAsCloudEventExtension)
	assert.Equal(t, SerializeAsCloudEventExtension, replaced.Annotation())
	assert.Equal(t, a, v.Annotation(), "original unchanged")

	assert.Equal(t, "http-body|cloudevent-data", a.String())
	assert.Equal(t, "none", AnnotationNone.String())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Int64(1).Equal(Int64(1)))
	assert.False(t, Int64(1).Equal(Double(1)), "kind differs")
	assert.False(t, Int64(1).Equal(Int64(1, SerializeInHTTPHeader)), "annotation differs")
	assert.True(t, Int64(1).EqualIgnoringAnnotation(Int64(1, SerializeInHTTPHeader)))
	assert.False(t, Double(math.NaN()).Equal(Double(math.NaN())))

	a1 := FromArray(NewArray(Int64(1), String("a")))
	a2 := FromArray(NewArray(Int64(1), String("a")))
	a3 := FromArray(NewArray(String("a"), Int64(1)))
	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(a3), "order matters")

	o1 := FromObject(MustObject(Pair("x", a1)))
	o2 := FromObject(MustObject(Pair("x", a2)))
	assert.True(t, o1.Equal(o2))
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindNull, KindBool, KindInt64, KindDouble, KindString} {
		assert.True(t, k.IsPrimitive(), k.String())
	}
	assert.False(t, KindArray.IsPrimitive())
	assert.False(t, KindObject.IsPrimitive())
	assert.Equal(t, "object", KindObject.String())
}

func TestValue_String(t *testing.T) {
	v := FromObject(MustObject(
		Pair("b", FromArray(NewArray(Int64(1), Bool(true)))),
		Pair("a", String("x")),
	))
	assert.Equal(t, `{a:"x" b:[1 true]}`, v.String())
}
