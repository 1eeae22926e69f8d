package suggest

import "strings"

// Query is the mention query under the caret: the text between the
// triggering @ and the caret, plus where that @ sits in the input.
type Query struct {
	Text    string
	AtIndex int
}

// ExtractQuery pulls the mention query out of the input text. It returns
// false when no @ precedes the caret or when the text after the @ contains
// a space, both of which dismiss the suggestion box. An empty query (caret
// directly after the @) is valid and matches every user.
func ExtractQuery(text string, caret int) (Query, bool) {
	if caret < 0 {
		caret = 0
	}
	if caret > len(text) {
		caret = len(text)
	}

	upToCaret := text[:caret]
	at := strings.LastIndex(upToCaret, "@")
	if at == -1 {
		return Query{}, false
	}

	after := upToCaret[at+1:]
	if strings.Contains(after, " ") {
		return Query{}, false
	}
	return Query{Text: after, AtIndex: at}, true
}

// Commit splices a selected mention into the input: everything from the
// triggering @ through the caret becomes "@name", followed by a single
// space unless the remaining text already starts with whitespace. The
// returned caret sits immediately after the mention and that space.
func Commit(text string, caret int, at int, name string) (string, int) {
	if caret < 0 || caret > len(text) || at < 0 || at >= len(text) {
		return text, caret
	}

	before := text[:at]
	after := text[caret:]
	sep := " "
	if strings.HasPrefix(after, " ") || strings.HasPrefix(after, "\t") {
		sep = ""
	}

	newText := before + "@" + name + sep + after
	newCaret := at + 1 + len(name) + 1
	return newText, newCaret
}
