package uid

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is the size of a session token. 36^8 ids make a collision
// against the handful of concurrent short-lived sessions an accepted risk;
// there is deliberately no regenerate-on-collision loop.
const TokenLength = 8

// NewToken returns a short random alphanumeric token.
func NewToken() string {
	b := make([]byte, TokenLength)
	rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}
