package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already safe", "resume.pdf", "resume.pdf"},
		{"spaces collapse", "my cv final.pdf", "my_cv_final.pdf"},
		{"run of unsafe chars collapses once", "cv  (final)!!.pdf", "cv_final_.pdf"},
		{"unicode replaced", "rēsumē.pdf", "r_sum_.pdf"},
		{"leading and trailing trimmed", "  cv.pdf  ", "cv.pdf"},
		{"keeps dots dashes underscores", "a-b_c.d", "a-b_c.d"},
		{"empty falls back", "", "file"},
		{"all unsafe falls back", "!!! ???", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFileName(tt.in))
		})
	}
}
