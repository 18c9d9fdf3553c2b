package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const base34Table = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// RandBase34 generates a random base34 string of the given length
func RandBase34(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length: %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	for i := range buf {
		buf[i] = base34Table[int(buf[i])%len(base34Table)]
	}
	return string(buf), nil
}

// ShortID returns a lowercase base34 id suitable for object names.
// It panics only if the system random source is broken.
func ShortID(length int) string {
	id, err := RandBase34(length)
	if err != nil {
		panic(err)
	}
	return strings.ToLower(id)
}
