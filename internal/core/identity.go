package core

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
)

// DefaultSession is used when the page location carries no session token.
const DefaultSession = "default-session"

// DeriveMessageID derives a stable identity for a message from its author,
// body and displayed timestamp. The same triple always yields the same ID.
// The hash space is truncated, so collisions between distinct messages are
// possible and accepted.
func DeriveMessageID(author, body, timestamp string) string {
	unique := fmt.Sprintf("%s-%s-%s", author, body, timestamp)
	sum := sha256.Sum256([]byte(unique))
	encoded := base64.StdEncoding.EncodeToString(sum[:])

	hash := make([]byte, 0, 32)
	for i := 0; i < len(encoded) && len(hash) < 32; i++ {
		c := encoded[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			hash = append(hash, c)
		}
	}
	return "msg-" + string(hash)
}

// SessionToken extracts the session token from the page's addressable
// location. Unparseable locations or a missing parameter fall back to
// DefaultSession.
func SessionToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultSession
	}
	if token := u.Query().Get("sessionToken"); token != "" {
		return token
	}
	return DefaultSession
}
