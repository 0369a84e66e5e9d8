package models

type VideoInfo struct {
	URL             string
	Title           string
	ThumbnailURL    string
	DurationMinutes float64
	Streams         []StreamOption
}

// Stream returns the stream with the given key.
func (v *VideoInfo) Stream(key string) (StreamOption, bool) {
	for _, s := range v.Streams {
		if s.Key == key {
			return s, true
		}
	}

	return StreamOption{}, false
}

type StreamOption struct {
	Key             string // extractor format_id (itag for youtube)
	ResolutionLabel string
	BitrateKbps     int
	Ext             string
	Filesize        int64

	handle StreamHandle
}

// StreamHandle is the extractor side of a stream. Only downloads use it.
type StreamHandle struct {
	VideoURL string
	FormatID string
}

func NewStreamOption(key, label string, bitrateKbps int, ext string, size int64, handle StreamHandle) StreamOption {
	return StreamOption{
		Key:             key,
		ResolutionLabel: label,
		BitrateKbps:     bitrateKbps,
		Ext:             ext,
		Filesize:        size,
		handle:          handle,
	}
}

func (s StreamOption) Handle() StreamHandle {
	return s.handle
}

type DownloadResult struct {
	Filename string
	Path     string
	Size     int64
}

// CachedVideoOption is what a telegram callback button points to.
type CachedVideoOption struct {
	URL   string
	Key   string
	Label string
}
