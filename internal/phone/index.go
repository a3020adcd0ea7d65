package phone

import "sync"

// Group is every raw spelling seen for one canonical number.
type Group struct {
	Number Number
	Raw    []string
}

// Index detects inputs that canonicalize to the same number, the check
// behind "phone number already registered". Safe for concurrent use.
type Index struct {
	mu     sync.Mutex
	order  []string
	groups map[string]*Group
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{groups: make(map[string]*Group)}
}

// Add validates raw and records it. dup is true when the canonical form was
// already present. Invalid input is not recorded.
func (idx *Index) Add(raw string) (n Number, dup bool, err error) {
	n, err = New(raw)
	if err != nil {
		return Number{}, false, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	g, ok := idx.groups[n.value]
	if !ok {
		g = &Group{Number: n}
		idx.groups[n.value] = g
		idx.order = append(idx.order, n.value)
	}
	g.Raw = append(g.Raw, raw)
	return n, ok, nil
}

// Len returns the number of distinct canonical numbers.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.order)
}

// Groups returns every group in first-seen order.
func (idx *Index) Groups() []Group {
	return idx.collect(func(*Group) bool { return true })
}

// Duplicates returns only the groups with more than one raw spelling.
func (idx *Index) Duplicates() []Group {
	return idx.collect(func(g *Group) bool { return len(g.Raw) > 1 })
}

func (idx *Index) collect(keep func(*Group) bool) []Group {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	out := make([]Group, 0, len(idx.order))
	for _, key := range idx.order {
		g := idx.groups[key]
		if keep(g) {
			out = append(out, Group{Number: g.Number, Raw: append([]string(nil), g.Raw...)})
		}
	}
	return out
}
