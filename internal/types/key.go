package types

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Key is the canonical identifier of a record: the natural key (contact ID or
// channel number) rendered as a base-10 integer string.
//
// Keys produced from 7, "7", 7.0, "7.0" and " 07 " are all "7". There is no
// way to build a Key holding a fractional or non-numeric value through KeyOf.
type Key string

// KeyFromInt returns the canonical key for an integer.
func KeyFromInt(n int) Key {
	return Key(strconv.Itoa(n))
}

// KeyOf canonicalizes a natural key of any numeric or string type.
func KeyOf(v any) (Key, error) {
	switch x := v.(type) {
	case Key:
		return KeyOf(string(x))
	case int:
		return KeyFromInt(x), nil
	case int8:
		return Key(strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return Key(strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return Key(strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return Key(strconv.FormatInt(x, 10)), nil
	case uint:
		return Key(strconv.FormatUint(uint64(x), 10)), nil
	case uint8:
		return Key(strconv.FormatUint(uint64(x), 10)), nil
	case uint16:
		return Key(strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return Key(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return Key(strconv.FormatUint(x, 10)), nil
	case float32:
		return keyFromFloat(float64(x))
	case float64:
		return keyFromFloat(x)
	case string:
		return keyFromString(x)
	default:
		return "", fmt.Errorf("%w: unsupported key type %T", ErrValidation, v)
	}
}

// MustKey is KeyOf for values known to be integral. It panics otherwise and
// is meant for tests and constants.
func MustKey(v any) Key {
	k, err := KeyOf(v)
	if err != nil {
		panic(err)
	}
	return k
}

// KeysOf canonicalizes a list of raw identifiers, failing on the first bad one.
func KeysOf[T any](values []T) ([]Key, error) {
	keys := make([]Key, 0, len(values))
	for _, v := range values {
		k, err := KeyOf(v)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func keyFromString(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty key", ErrValidation)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Key(strconv.FormatInt(n, 10)), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("%w: key %q is not a number", ErrValidation, s)
	}
	return keyFromFloat(f)
}

func keyFromFloat(f float64) (Key, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", fmt.Errorf("%w: key %v is not an integer", ErrValidation, f)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return "", fmt.Errorf("%w: key %v is out of range", ErrValidation, f)
	}
	return Key(strconv.FormatInt(int64(f), 10)), nil
}

// Int converts the key back to the native key type.
func (k Key) Int() (int, error) {
	n, err := strconv.Atoi(string(k))
	if err != nil {
		return 0, fmt.Errorf("%w: key %q is not an integer", ErrValidation, string(k))
	}
	return n, nil
}

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// CompareKeys orders keys numerically when both are integers and falls back
// to byte order otherwise.
func CompareKeys(a, b Key) int {
	ai, aerr := a.Int()
	bi, berr := b.Int()
	if aerr == nil && berr == nil {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(string(a), string(b))
}

// SortKeys sorts keys in place in natural numeric order.
func SortKeys(keys []Key) {
	slices.SortFunc(keys, CompareKeys)
}

// KeySet builds a membership set from records.
func KeySet[R Record](records []R) map[Key]struct{} {
	set := make(map[Key]struct{}, len(records))
	for _, r := range records {
		set[r.Key()] = struct{}{}
	}
	return set
}
