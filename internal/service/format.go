package service

import (
	"fmt"

	"github.com/far4599/ytd-web/internal/models"
)

// StreamLabel is the text of a stream row, e.g. "360p (700kbps)".
func StreamLabel(s models.StreamOption) string {
	return fmt.Sprintf("%s (%dkbps)", s.ResolutionLabel, s.BitrateKbps)
}

// DurationText renders the duration in minutes with two decimals.
func DurationText(info *models.VideoInfo) string {
	return fmt.Sprintf("%.2f minutes", info.DurationMinutes)
}
