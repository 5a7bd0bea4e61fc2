package buffer

import "github.com/rivo/uniseg"

// displayWidth returns the number of terminal cells s occupies.
// Tabs advance to the next multiple of tabWidth.
func displayWidth(s string, tabWidth int) int {
	width := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			width += tabWidth - width%tabWidth
			continue
		}
		width += w
	}
	return width
}

// graphemeCount returns the number of user-perceived characters in s.
func graphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
