package service

import "regexp"

var resolutionRe = regexp.MustCompile(`(\d+)[pi]`)

// ExtractResolutionLabel turns a raw resolution such as "720p60" or "1080i"
// into "720p" / "1080p". Strings without a <digits>p or <digits>i part are
// returned as is.
func ExtractResolutionLabel(raw string) string {
	m := resolutionRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}

	return m[1] + "p"
}
