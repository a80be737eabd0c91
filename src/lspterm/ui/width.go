package ui

import "github.com/mattn/go-runewidth"

func runeWidth(r rune) int {
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}
