package invite_test

import (
	"strings"
	"testing"

	"weddinvite/src-server/invite"
)

func TestGenerateCode(t *testing.T) {
	// case: fixed length, url-safe alphabet
	func() {
		code, err := invite.GenerateCode()
		if err != nil {
			t.Error(err)
		}
		if len(code) != invite.CodeLen {
			t.Error("unexpected code length", len(code))
		}
		const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
		for _, c := range code {
			if !strings.ContainsRune(alphabet, c) {
				t.Error("code contains non-url-safe character", string(c))
			}
		}
	}()

	// case: no collision across a large sample
	func() {
		seen := make(map[string]struct{}, 10000)
		for i := 0; i < 10000; i++ {
			code, err := invite.GenerateCode()
			if err != nil {
				t.Error(err)
			}
			if _, ok := seen[code]; ok {
				t.Error("duplicate code generated", code)
			}
			seen[code] = struct{}{}
		}
	}()
}
