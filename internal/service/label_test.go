package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractResolutionLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"720p60", "720p"},
		{"1080i", "1080p"},
		{"360p", "360p"},
		{"HD", "HD"},
		{"1280x720", "1280x720"},
		{"", ""},
		{"2160p60 HDR", "2160p"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ExtractResolutionLabel(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ExtractResolutionLabel(got), "must be idempotent")
		})
	}
}
