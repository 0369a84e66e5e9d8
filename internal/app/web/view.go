package web

import (
	"github.com/far4599/ytd-web/internal/models"
	"github.com/far4599/ytd-web/internal/service"
)

// RowState is the state of one stream row:
// Idle -> AwaitingFilename -> Downloading -> Succeeded | Failed.
type RowState int

const (
	RowIdle RowState = iota
	RowAwaitingFilename
	RowDownloading
	RowSucceeded
	RowFailed
)

func (s RowState) String() string {
	switch s {
	case RowIdle:
		return "idle"
	case RowAwaitingFilename:
		return "awaiting_filename"
	case RowDownloading:
		return "downloading"
	case RowSucceeded:
		return "succeeded"
	case RowFailed:
		return "failed"
	}

	return "unknown"
}

type Row struct {
	Key      string
	Label    string
	State    RowState
	Filename string
	Message  string
}

// Select moves an idle row to AwaitingFilename.
func (r Row) Select() Row {
	if r.State == RowIdle {
		r.State = RowAwaitingFilename
	}
	return r
}

// Prompt keeps the row waiting for a file name and shows msg next to the input.
func (r Row) Prompt(msg string) Row {
	if r.State == RowAwaitingFilename {
		r.Message = msg
	}
	return r
}

func (r Row) Start(filename string) Row {
	if r.State == RowAwaitingFilename && len(filename) > 0 {
		r.State = RowDownloading
		r.Filename = filename
		r.Message = ""
	}
	return r
}

func (r Row) Succeed(msg string) Row {
	if r.State == RowDownloading {
		r.State = RowSucceeded
		r.Message = msg
	}
	return r
}

func (r Row) Fail(msg string) Row {
	if r.State == RowDownloading {
		r.State = RowFailed
		r.Message = msg
	}
	return r
}

func (r Row) Idle() bool             { return r.State == RowIdle }
func (r Row) AwaitingFilename() bool { return r.State == RowAwaitingFilename }
func (r Row) Downloading() bool      { return r.State == RowDownloading }
func (r Row) Succeeded() bool        { return r.State == RowSucceeded }
func (r Row) Failed() bool           { return r.State == RowFailed }

// Page is everything one response renders. Handlers never modify a Page in
// place, With* methods return a copy.
type Page struct {
	URL      string
	Title    string
	Thumb    string
	Duration string
	Rows     []Row
	Error    string

	hasInfo bool
}

func NewPage(url string, info *models.VideoInfo) Page {
	p := Page{URL: url}
	if info == nil {
		return p
	}

	p.hasInfo = true
	p.Title = info.Title
	p.Thumb = info.ThumbnailURL
	p.Duration = service.DurationText(info)
	p.Rows = make([]Row, 0, len(info.Streams))
	for _, s := range info.Streams {
		p.Rows = append(p.Rows, Row{
			Key:   s.Key,
			Label: service.StreamLabel(s),
		})
	}

	return p
}

// HasInfo reports whether the metadata section is rendered.
func (p Page) HasInfo() bool {
	return p.hasInfo
}

func (p Page) WithError(msg string) Page {
	p.Error = msg
	return p
}

// WithRow returns a copy of p where the row with the given key is replaced by
// fn(row).
func (p Page) WithRow(key string, fn func(Row) Row) Page {
	rows := make([]Row, len(p.Rows))
	copy(rows, p.Rows)

	for i := range rows {
		if rows[i].Key == key {
			rows[i] = fn(rows[i])
		}
	}

	p.Rows = rows

	return p
}

func (p Page) Row(key string) (Row, bool) {
	for _, r := range p.Rows {
		if r.Key == key {
			return r, true
		}
	}

	return Row{}, false
}
