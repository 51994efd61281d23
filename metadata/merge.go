package metadata

import "fmt"

// MergeStrategy selects how Merge resolves keys present on both sides.
type MergeStrategy uint8

const (
	// AddOrReplace lets incoming values win. Nested objects are merged
	// recursively; scalars and arrays are replaced wholesale.
	AddOrReplace MergeStrategy = iota
	// PreserveExisting keeps the original value and drops the incoming one.
	PreserveExisting
	// FailOnConflict fails with a *ConflictError naming the first shared key.
	FailOnConflict
)

func (s MergeStrategy) String() string {
	switch s {
	case AddOrReplace:
		return "add-or-replace"
	case PreserveExisting:
		return "preserve-existing"
	case FailOnConflict:
		return "fail-on-conflict"
	default:
		return fmt.Sprintf("merge-strategy(%d)", uint8(s))
	}
}

// ParseMergeStrategy parses the names produced by MergeStrategy.String.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch s {
	case "add-or-replace", "":
		return AddOrReplace, nil
	case "preserve-existing":
		return PreserveExisting, nil
	case "fail-on-conflict":
		return FailOnConflict, nil
	default:
		return 0, fmt.Errorf("%w: unknown merge strategy %q", ErrInvalidArgument, s)
	}
}

// Merge combines original and incoming under strategy.
//
// Merging with an empty object returns the other object unchanged.
func Merge(original, incoming Object, strategy MergeStrategy) (Object, error) {
	if incoming.IsEmpty() {
		return original, nil
	}
	if original.IsEmpty() {
		return incoming, nil
	}
	if strategy > FailOnConflict {
		return Object{}, fmt.Errorf("%w: unknown merge strategy %d", ErrInvalidArgument, strategy)
	}

	b := ObjectBuilderFrom(original)
	defer b.Release()

	for key, in := range incoming.All() {
		existing, ok := b.Get(key)
		if !ok {
			if err := b.Add(key, in); err != nil {
				return Object{}, err
			}
			continue
		}

		switch strategy {
		case AddOrReplace:
			merged, err := mergeValues(existing, in, strategy)
			if err != nil {
				return Object{}, err
			}
			if err := b.Replace(key, merged); err != nil {
				return Object{}, err
			}
		case PreserveExisting:
		case FailOnConflict:
			return Object{}, &ConflictError{Key: key}
		}
	}

	return b.Build()
}

func mergeValues(left, right Value, strategy MergeStrategy) (Value, error) {
	lo, lok := left.AsObject()
	ro, rok := right.AsObject()
	if !lok || !rok {
		return right, nil
	}
	merged, err := Merge(lo, ro, strategy)
	if err != nil {
		return Value{}, err
	}
	return FromObject(merged, right.Annotation()), nil
}

// MergeIfNeeded is Merge for call sites that own the original object. The
// boolean reports whether the result differs from original, so callers can
// skip rebuilding whatever holds it.
func MergeIfNeeded(original, incoming Object, strategy MergeStrategy) (Object, bool, error) {
	if incoming.IsEmpty() {
		return original, false, nil
	}
	merged, err := Merge(original, incoming, strategy)
	if err != nil {
		return Object{}, false, err
	}
	if merged.Equal(original) {
		return original, false, nil
	}
	return merged, true, nil
}
