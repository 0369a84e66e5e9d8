package service

import (
	"context"
	"strings"
	"time"

	"github.com/far4599/ytd-web/internal/models"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/pkg/ytdlp"
	"github.com/far4599/ytd-web/internal/repository"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const defaultResolveTimeout = 10 * time.Minute

var ErrEmptyURL = errors.New("url is empty")

// VideoService resolves video metadata. Results are cached per exact URL.
type VideoService struct {
	client ytdlp.Client
	repo   *repository.InMemRepository

	// timeout bounds a shared lookup, which outlives any single caller.
	timeout time.Duration
	group   singleflight.Group
}

func NewVideoService(client ytdlp.Client, repo *repository.InMemRepository) (*VideoService, error) {
	if client == nil || repo == nil {
		return nil, errors.New("video service needs a client and a repository")
	}

	return &VideoService{
		client:  client,
		repo:    repo,
		timeout: defaultResolveTimeout,
	}, nil
}

// WithTimeout sets the upper bound of one upstream lookup. Zero keeps the default.
func (s *VideoService) WithTimeout(timeout time.Duration) *VideoService {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Resolve returns the metadata and progressive streams for url. Every error
// is a *models.ResolutionFailure.
func (s *VideoService) Resolve(ctx context.Context, url string) (*models.VideoInfo, error) {
	if len(strings.TrimSpace(url)) == 0 {
		return nil, models.NewResolutionFailure(models.ReasonInvalidURL, ErrEmptyURL)
	}

	if info, ok := repository.GetAs[*models.VideoInfo](s.repo, url); ok {
		return info, nil
	}

	ch := s.group.DoChan(url, func() (interface{}, error) {
		if info, ok := repository.GetAs[*models.VideoInfo](s.repo, url); ok {
			return info, nil
		}

		// callers share this lookup, so none of their contexts may cancel it
		lookupCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		raw, err := s.client.Info(lookupCtx, url)
		if err != nil {
			return nil, err
		}

		info := newVideoInfo(url, raw)
		s.repo.Add(url, info)

		log.Logger.Infow("video resolved", "url", url, "title", info.Title, "streams", len(info.Streams))

		return info, nil
	})

	var (
		v   interface{}
		err error
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		v, err = res.Val, res.Err
	}
	if err != nil {
		failure := models.NewResolutionFailure(resolutionReason(ctx, err), err)
		log.Logger.Warnw("failed to resolve video", "url", url, "reason", failure.Reason, "error", err)

		return nil, failure
	}

	return v.(*models.VideoInfo), nil
}

// ClearCache drops every cached resolution.
func (s *VideoService) ClearCache() {
	s.repo.Purge()
}

func newVideoInfo(url string, raw *ytdlp.Info) *models.VideoInfo {
	info := &models.VideoInfo{
		URL:             url,
		Title:           raw.Title,
		ThumbnailURL:    raw.Thumbnail,
		DurationMinutes: raw.Duration / 60,
		Streams:         make([]models.StreamOption, 0, len(raw.Formats)),
	}

	for _, f := range raw.Formats {
		if !f.Progressive() {
			continue
		}

		info.Streams = append(info.Streams, models.NewStreamOption(
			f.ID,
			ExtractResolutionLabel(f.RawResolution()),
			bitrateKbps(f),
			f.Ext,
			f.Filesize,
			models.StreamHandle{VideoURL: url, FormatID: f.ID},
		))
	}

	return info
}

func bitrateKbps(f ytdlp.Format) int {
	if f.TBR > 0 {
		return int(f.TBR)
	}

	return int(f.ABR)
}

func resolutionReason(ctx context.Context, err error) models.Reason {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.ReasonCanceled
	}

	if errors.Is(err, ytdlp.ErrInvalidOutput) {
		return models.ReasonParse
	}

	var extErr *ytdlp.ExtractorError
	if !errors.As(err, &extErr) {
		return models.ReasonExtractor
	}

	msg := strings.ToLower(extErr.Message)
	switch {
	case strings.Contains(msg, "unsupported url"),
		strings.Contains(msg, "is not a valid url"),
		strings.Contains(msg, "invalid url"):
		return models.ReasonInvalidURL
	case strings.Contains(msg, "private video"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "not available"),
		strings.Contains(msg, "has been removed"),
		strings.Contains(msg, "sign in"):
		return models.ReasonUnavailable
	}

	return models.ReasonExtractor
}
