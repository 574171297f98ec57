package kvutil

import "strings"

// Key joins parts with "." and replaces characters that KV keys do not allow.
//
// Valid key characters are letters, digits, '-', '_', '=', '/' and '.'; every
// other byte becomes '_'. Empty parts are dropped.
//
// Example:
//
//	kvutil.Key("runs", "7c9e6679-7425-40de-944b-e07fc1f90ae7") // "runs.7c9e6679-7425-40de-944b-e07fc1f90ae7"
//	kvutil.Key("tables", "purpose assessments")                // "tables.purpose_assessments"
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		kept = append(kept, sanitize(p))
	}

	return strings.Join(kept, ".")
}

func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '=', c == '/', c == '.':
		default:
			b[i] = '_'
		}
	}

	return string(b)
}
