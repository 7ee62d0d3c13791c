package service

import "strings"

// sanitizeUTF8 drops invalid byte sequences from catalog text and user questions
// so that embedding requests and stored records only carry valid UTF-8.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
