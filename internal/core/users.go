package core

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Mimouss56/wwsnb/internal/types"
)

// Status suffixes the host page appends to display names in the user list.
var statusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s+Verrouillé($|\s)`),
	regexp.MustCompile(`\s+Webcam($|\s)`),
	regexp.MustCompile(`\s+Mobile($|\s)`),
	regexp.MustCompile(`\s*\|\s*`),
}

// CleanUsername strips status indicators and separators from a raw
// display name.
func CleanUsername(name string) string {
	for _, re := range statusPatterns {
		name = re.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}

// Initials returns the uppercased first letter of each word in name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		runes := []rune(word)
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	return b.String()
}

// UserColor returns a deterministic HSL color for a name. The hue walks
// the golden angle so adjacent name lengths land far apart.
func UserColor(name string) string {
	hue := math.Mod(float64(len(name))*137.508, 360)
	return fmt.Sprintf("hsl(%.3f, 70%%, 80%%)", hue)
}

// NewUser builds a directory entry from a raw display name.
func NewUser(rawName string) types.User {
	name := CleanUsername(rawName)
	return types.User{
		Name:     name,
		Initials: Initials(name),
		Color:    UserColor(name),
	}
}
