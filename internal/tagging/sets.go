package tagging

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Union returns the IDs of a followed by those of b not already present.
// Duplicates inside a or b collapse as well.
func Union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		out = appendUnique(out, id)
	}
	for _, id := range b {
		out = appendUnique(out, id)
	}
	return out
}

// Without returns the IDs of ids that are not in drop
func Without(ids, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, id := range drop {
		skip[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; ok {
			continue
		}
		out = appendUnique(out, id)
	}
	return out
}

// Intersect returns the IDs of a that are also in b
func Intersect(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, id := range b {
		keep[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := keep[id]; ok {
			out = appendUnique(out, id)
		}
	}
	return out
}
