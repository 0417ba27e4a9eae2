package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{"data source", "open failed: Data Source=app.db", "[DATA_SOURCE]", "app.db"},
		{"unix path", "cannot open /var/lib/goldenticket/app.db", "[FILE_PATH]", "/var/lib"},
		{"stack", "boom\ngoroutine 12 [running]:", "[STACK_TRACE]", "goroutine 12"},
		{"plain", "School not found", "School not found", "["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeErrorMessage(tt.input)
			assert.Contains(t, got, tt.contains)
			assert.NotContains(t, got, tt.excludes)
		})
	}
}

func TestSanitizeErrorMessage_Truncates(t *testing.T) {
	long := make([]byte, maxErrorMessageLength*2)
	for i := range long {
		long[i] = 'x'
	}
	got := sanitizeErrorMessage(string(long))
	assert.Len(t, got, maxErrorMessageLength)
	assert.True(t, len(got) > 3 && got[len(got)-3:] == "...")
}
