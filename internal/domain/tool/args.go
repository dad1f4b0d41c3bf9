package tool

// Typed accessors for validated argument maps. All tolerate the float64
// values json decoding produces for numbers.

// StringArg returns the string value of key, or def when absent.
func StringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}

// IntArg returns the integer value of key, or def when absent.
func IntArg(args map[string]any, key string, def int) int {
	switch n := args[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// FloatArg returns the numeric value of key, or def when absent.
func FloatArg(args map[string]any, key string, def float64) float64 {
	switch n := args[key].(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return def
}

// BoolArg returns the boolean value of key, or def when absent.
func BoolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// StringsArg returns the string-slice value of key, or nil when absent.
func StringsArg(args map[string]any, key string) []string {
	switch a := args[key].(type) {
	case []string:
		return a
	case []any:
		out := make([]string, 0, len(a))
		for _, item := range a {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasArg reports whether key is present in args.
func HasArg(args map[string]any, key string) bool {
	_, ok := args[key]
	return ok
}
