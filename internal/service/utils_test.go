package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "valid ascii", in: "Home Deep Cleaning", want: "Home Deep Cleaning"},
		{name: "valid arabic", in: "تنظيف منازل", want: "تنظيف منازل"},
		{name: "stray byte", in: "Plumb\xffing", want: "Plumbing"},
		{name: "truncated rune", in: "AC \xd8", want: "AC "},
		{name: "run of invalid bytes", in: "\xc3\x28\xa0\xa1price", want: "(price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeUTF8(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
