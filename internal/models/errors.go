package models

import (
	"github.com/pkg/errors"
)

type Reason string

const (
	ReasonInvalidURL      Reason = "invalid_url"
	ReasonUnavailable     Reason = "unavailable"
	ReasonExtractor       Reason = "extractor"
	ReasonParse           Reason = "parse"
	ReasonStreamNotFound  Reason = "stream_not_found"
	ReasonInvalidFilename Reason = "invalid_filename"
	ReasonPermission      Reason = "permission"
	ReasonIO              Reason = "io"
	ReasonCanceled        Reason = "canceled"
)

// ResolutionFailure is returned when metadata for a URL can not be resolved.
type ResolutionFailure struct {
	Reason  Reason
	Message string
	Err     error
}

func NewResolutionFailure(reason Reason, err error) *ResolutionFailure {
	return &ResolutionFailure{Reason: reason, Message: messageOf(err), Err: err}
}

func (f *ResolutionFailure) Error() string {
	return "error retrieving video info: " + f.Message
}

func (f *ResolutionFailure) Unwrap() error {
	return f.Err
}

// DownloadFailure is returned when a stream can not be written to disk.
type DownloadFailure struct {
	Reason  Reason
	Message string
	Err     error
}

func NewDownloadFailure(reason Reason, err error) *DownloadFailure {
	return &DownloadFailure{Reason: reason, Message: messageOf(err), Err: err}
}

func (f *DownloadFailure) Error() string {
	return "error downloading: " + f.Message
}

func (f *DownloadFailure) Unwrap() error {
	return f.Err
}

// ReasonOf returns the failure reason carried by err, or an empty reason.
func ReasonOf(err error) Reason {
	var rf *ResolutionFailure
	if errors.As(err, &rf) {
		return rf.Reason
	}

	var df *DownloadFailure
	if errors.As(err, &df) {
		return df.Reason
	}

	return ""
}

func messageOf(err error) string {
	if err == nil {
		return "unknown error"
	}

	return err.Error()
}
