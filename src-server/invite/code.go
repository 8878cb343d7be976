package invite

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// 16 random bytes -> 22 base64url characters.
const codeByteLen = 16

// CodeLen is the fixed length of every generated access code.
const CodeLen = 22

// GenerateCode produces an unguessable, URL-safe access code. It does
// not check for collisions; the unique_code column constraint does,
// and at 128 bits of entropy that branch is effectively unreachable.
func GenerateCode() (string, error) {
	buf := make([]byte, codeByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("GenerateCode: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
