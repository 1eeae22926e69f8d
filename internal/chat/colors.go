package chat

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var userPalette = []lipgloss.Color{
	lipgloss.Color("111"),
	lipgloss.Color("157"),
	lipgloss.Color("216"),
	lipgloss.Color("36"),
	lipgloss.Color("183"),
	lipgloss.Color("230"),
}

// colorForUser maps a name deterministically onto the terminal palette,
// the TUI stand-in for the HSL avatar color the page adapter derives.
func colorForUser(name string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return userPalette[h.Sum32()%uint32(len(userPalette))]
}
