package lawgrid

// Snapshot holds the current value of every selector, grouped by column in
// presentation order.
type Snapshot [Columns][]string

// Extract reads the current values out of g without touching it.
func Extract(g Grid) Snapshot {
	var out Snapshot
	for i, col := range g {
		vals := make([]string, 0, len(col))
		for _, sel := range col {
			vals = append(vals, sel.Value())
		}
		out[i] = vals
	}
	return out
}

func (s Snapshot) Len() int {
	n := 0
	for _, col := range s {
		n += len(col)
	}
	return n
}

func (s Snapshot) Equal(o Snapshot) bool {
	for i := range s {
		if len(s[i]) != len(o[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}
