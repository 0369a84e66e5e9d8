package ytdlp

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// ErrInvalidOutput is returned when the yt-dlp output is not a metadata document.
var ErrInvalidOutput = errors.New("invalid yt-dlp output")

// Info is the subset of the yt-dlp -J document the app reads.
type Info struct {
	Title     string
	Thumbnail string
	Duration  float64 // seconds
	Formats   []Format
}

type Format struct {
	ID         string
	Ext        string
	VCodec     string
	ACodec     string
	Protocol   string
	FormatNote string
	Resolution string
	Height     int
	TBR        float64 // kbps
	ABR        float64 // kbps
	Filesize   int64
}

// ParseInfo parses yt-dlp -J output.
func ParseInfo(b []byte) (*Info, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(ErrInvalidOutput, "empty output")
	}

	json, err := new(fastjson.Parser).ParseBytes(b)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidOutput, "failed to parse: %v", err)
	}

	info := &Info{
		Title:     string(json.GetStringBytes("title")),
		Thumbnail: string(json.GetStringBytes("thumbnail")),
		Duration:  json.GetFloat64("duration"),
	}

	for _, f := range json.GetArray("formats") {
		info.Formats = append(info.Formats, Format{
			ID:         string(f.GetStringBytes("format_id")),
			Ext:        string(f.GetStringBytes("ext")),
			VCodec:     string(f.GetStringBytes("vcodec")),
			ACodec:     string(f.GetStringBytes("acodec")),
			Protocol:   string(f.GetStringBytes("protocol")),
			FormatNote: string(f.GetStringBytes("format_note")),
			Resolution: string(f.GetStringBytes("resolution")),
			Height:     f.GetInt("height"),
			TBR:        f.GetFloat64("tbr"),
			ABR:        f.GetFloat64("abr"),
			Filesize:   getFilesize(f),
		})
	}

	return info, nil
}

func getFilesize(v *fastjson.Value) int64 {
	if size := v.GetInt64("filesize"); size > 0 {
		return size
	}

	return v.GetInt64("filesize_approx")
}

// Progressive reports whether the format carries audio and video in a single
// file served over plain http.
func (f Format) Progressive() bool {
	if !hasCodec(f.VCodec) || !hasCodec(f.ACodec) {
		return false
	}

	switch f.Protocol {
	case "", "http", "https":
		return true
	}

	return false
}

// RawResolution is the resolution string the extractor reports for the format.
func (f Format) RawResolution() string {
	switch {
	case len(f.FormatNote) > 0:
		return f.FormatNote
	case len(f.Resolution) > 0:
		return f.Resolution
	case f.Height > 0:
		return strconv.Itoa(f.Height) + "p"
	}

	return ""
}

func hasCodec(codec string) bool {
	return len(codec) > 0 && codec != "none"
}
