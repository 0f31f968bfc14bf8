package models

// SanitizeMap recursively drops null and empty values from a metadata or
// context map: nils, empty/whitespace-free strings, empty nested maps and
// slices. The input is not modified.
func SanitizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if v, ok := sanitizeValue(value); ok {
			out[key] = v
		}
	}
	return out
}

func sanitizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		if v == "" {
			return nil, false
		}
		return v, true
	case map[string]any:
		nested := SanitizeMap(v)
		if len(nested) == 0 {
			return nil, false
		}
		return nested, true
	case []any:
		cleaned := make([]any, 0, len(v))
		for _, item := range v {
			if cv, ok := sanitizeValue(item); ok {
				cleaned = append(cleaned, cv)
			}
		}
		if len(cleaned) == 0 {
			return nil, false
		}
		return cleaned, true
	case []string:
		cleaned := make([]string, 0, len(v))
		for _, item := range v {
			if item != "" {
				cleaned = append(cleaned, item)
			}
		}
		if len(cleaned) == 0 {
			return nil, false
		}
		return cleaned, true
	default:
		return v, true
	}
}
