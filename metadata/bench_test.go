package metadata

import (
	"fmt"
	"testing"
)

func benchmarkObject(n int) Object {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Pair(fmt.Sprintf("key-%04d", i), Int64(int64(i)))
	}
	return MustObject(entries...)
}

func BenchmarkObject_Get(b *testing.B) {
	for _, n := range []int{4, 8, 32, 256} {
		obj := benchmarkObject(n)
		key := fmt.Sprintf("key-%04d", n/2)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, ok := obj.Get(key); !ok {
					b.Fatal("missing key")
				}
			}
		})
	}
}

func BenchmarkObjectBuilder_Build(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		ob := NewObjectBuilder(4)
		_ = ob.Add("source", String("urn:test"))
		_ = ob.Add("correlationId", String("abc"))
		_ = ob.Add("attempt", Int64(1))
		if _, err := ob.Build(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMerge(b *testing.B) {
	base := benchmarkObject(16)
	incoming := MustObject(Pair("key-0003", Int64(-1)), Pair("zzz", Null()))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Merge(base, incoming, AddOrReplace); err != nil {
			b.Fatal(err)
		}
	}
}
