package nav

import "sort"

// DiffResult compares the document sets of two navigation trees. Ordering and
// grouping are ignored.
type DiffResult struct {
	OnlyInA []string
	OnlyInB []string
}

// Equal reports whether both trees reference the same documents.
func (d DiffResult) Equal() bool { return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0 }

// Diff compares the document ids of two sidebars as sets.
func Diff(a, b *Sidebar) DiffResult {
	return DiffIDs(a.DocIDs(), b.DocIDs())
}

// DiffIDs compares two id lists as sets. Results are sorted.
func DiffIDs(a, b []string) DiffResult {
	inA := toSet(a)
	inB := toSet(b)
	var res DiffResult
	for id := range inA {
		if !inB[id] {
			res.OnlyInA = append(res.OnlyInA, id)
		}
	}
	for id := range inB {
		if !inA[id] {
			res.OnlyInB = append(res.OnlyInB, id)
		}
	}
	sort.Strings(res.OnlyInA)
	sort.Strings(res.OnlyInB)
	return res
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
