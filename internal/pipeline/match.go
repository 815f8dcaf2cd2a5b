package pipeline

import "strings"

// MatchDestination associates a free-form location string with a position in
// the trip's destination sequence. Two passes: case-insensitive substring
// containment in either direction, then the first token of the location (when
// at least 3 characters) against each destination name. Returns -1 on a miss.
//
// Known limitation: destination names sharing a common city-name substring can
// produce a false positive; the first match wins and no stricter rule is
// applied.
func MatchDestination(location string, destinationNames []string) int {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return -1
	}

	for i, name := range destinationNames {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if strings.Contains(n, loc) || strings.Contains(loc, n) {
			return i
		}
	}

	token := firstToken(loc)
	if len([]rune(token)) >= 3 {
		for i, name := range destinationNames {
			n := strings.ToLower(strings.TrimSpace(name))
			if n == "" {
				continue
			}
			if strings.Contains(n, token) || strings.Contains(token, n) {
				return i
			}
		}
	}

	return -1
}

func firstToken(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
