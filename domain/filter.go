package domain

import "strings"

// FilterSchools narrows an already-fetched list. The search term matches
// case-insensitively as a substring of name, city, state or address; city and
// state are exact matches. Predicates combine with AND, and an empty
// predicate always passes, so FilterSchools(list, "", "", "") is the list
// unchanged.
func FilterSchools(list []School, search, city, state string) []School {
	if search == "" && city == "" && state == "" {
		return list
	}

	needle := strings.ToLower(search)
	out := make([]School, 0, len(list))
	for _, s := range list {
		if city != "" && s.City != city {
			continue
		}
		if state != "" && s.State != state {
			continue
		}
		if needle != "" && !matchesSearch(&s, needle) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesSearch(s *School, needle string) bool {
	for _, hay := range [...]string{s.Name, s.City, s.State, s.Address} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}
