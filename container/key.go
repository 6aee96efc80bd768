package container

// Key enumerates the primitive types usable as a Map/IdMap key, mirroring the
// primitive set field.Type supports for scalars (§3: "a key primitive type
// must be declared").
type Key interface {
	~string | ~bool |
		~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// compareKeys orders two keys of the same Key-constrained type for the
// sorted-slice binary search backing Map/IdMap.
func compareKeys[K Key](a, b K) int {
	switch av := any(a).(type) {
	case string:
		bv := any(b).(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case bool:
		bv := any(b).(bool)
		if av == bv {
			return 0
		}
		if !av && bv {
			return -1
		}
		return 1
	default:
		af, bf := toFloat(a), toFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
}

func toFloat[K Key](v K) float64 {
	switch n := any(v).(type) {
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
