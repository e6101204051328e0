package filter

func isScalar(v any) bool {
	if v == nil {
		return true
	}

	switch v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func isScalarSlice(v any) bool {
	switch v := v.(type) {
	case []any:
		for _, e := range v {
			if !isScalar(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isValidColumn reports whether s is a plain identifier, optionally
// dot-qualified (e.g. "users.name"). Quoting is never applied, so this is
// the full set of column names the compiler will interpolate.
func isValidColumn(s string) bool {
	if s == "" {
		return false
	}
	prevDot := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			if prevDot {
				return false
			}
			prevDot = true
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			prevDot = false
		case c >= '0' && c <= '9':
			if prevDot {
				return false
			}
		default:
			return false
		}
	}
	return !prevDot
}
