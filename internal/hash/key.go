package hash

import "github.com/cespare/xxhash/v2"

// Key computes the xxHash64 of a metadata key.
func Key(key string) uint64 {
	return xxhash.Sum64String(key)
}
