package pegs

import "strings"

// Render draws the board one row per line. Occupied cells are filled dots,
// empty cells are middle dots, cells off the cross are blank.
func (s State) Render() string {
	var sb strings.Builder
	for r := 0; r < Dim; r++ {
		var line strings.Builder
		for c := 0; c < Dim; c++ {
			idx, ok := CellIndex(r, c)
			switch {
			case !ok:
				line.WriteString("  ")
			case s.Occupied(idx):
				line.WriteString("● ")
			default:
				line.WriteString("· ")
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		if r != Dim-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
