package id

import (
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Parse checks that s is a canonical ULID and returns it normalised to
// upper case, which is the form New produces and the stores key on.
func Parse(s string) (string, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return "", fmt.Errorf("invalid id %q: %w", s, err)
	}
	return u.String(), nil
}
