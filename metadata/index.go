package metadata

import "github.com/hupe1980/results/internal/hash"

// indexThreshold is the entry count above which lookups go through a hash
// index instead of binary search.
const indexThreshold = 8

// keyIndex is an open-addressing table from key hash to entry position.
// Slots hold position+1 so that zero marks an empty slot.
type keyIndex struct {
	mask  uint64
	slots []int32
}

func buildKeyIndex(keys []string) *keyIndex {
	size := 1
	for size < len(keys)*2 {
		size <<= 1
	}
	ix := &keyIndex{
		mask:  uint64(size - 1),
		slots: make([]int32, size),
	}
	for i, k := range keys {
		pos := hash.Key(k) & ix.mask
		for ix.slots[pos] != 0 {
			pos = (pos + 1) & ix.mask
		}
		ix.slots[pos] = int32(i + 1)
	}
	return ix
}

func (ix *keyIndex) find(keys []string, key string) (int, bool) {
	pos := hash.Key(key) & ix.mask
	for {
		slot := ix.slots[pos]
		if slot == 0 {
			return -1, false
		}
		if keys[slot-1] == key {
			return int(slot - 1), true
		}
		pos = (pos + 1) & ix.mask
	}
}
