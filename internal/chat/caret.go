package chat

import "github.com/charmbracelet/bubbles/textinput"

// caretBytes converts the input's rune-indexed cursor to a byte offset,
// which is what the suggestion engine works in.
func caretBytes(input textinput.Model) int {
	runes := []rune(input.Value())
	pos := input.Position()
	if pos > len(runes) {
		pos = len(runes)
	}
	return len(string(runes[:pos]))
}

// runeIndex converts a byte offset in text back to a rune index.
func runeIndex(text string, byteOffset int) int {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}
	return len([]rune(text[:byteOffset]))
}
