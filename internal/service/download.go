package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/far4599/ytd-web/internal/models"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/pkg/ytdlp"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

const downloadExt = ".mp4"

var (
	ErrEmptyFilename   = errors.New("filename is empty")
	ErrInvalidFilename = errors.New("filename must not contain path separators")
	ErrStreamNotFound  = errors.New("stream not found")
)

// DownloadService writes progressive streams into a single directory.
type DownloadService struct {
	client ytdlp.Client
	videos *VideoService
	dir    string

	succeeded *atomic.Int64
	failed    *atomic.Int64
}

// NewDownloadService creates dir if it does not exist yet.
func NewDownloadService(client ytdlp.Client, videos *VideoService, dir string) (*DownloadService, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create downloads dir '%s'", dir)
	}

	return &DownloadService{
		client:    client,
		videos:    videos,
		dir:       dir,
		succeeded: atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
	}, nil
}

func (s *DownloadService) Dir() string {
	return s.dir
}

// Download finds the stream with the given key among the streams of url and
// saves it as <filename>.mp4. Every error is a *models.DownloadFailure.
func (s *DownloadService) Download(ctx context.Context, url, key, filename string) (*models.DownloadResult, error) {
	info, err := s.videos.Resolve(ctx, url)
	if err != nil {
		return nil, s.fail(models.NewDownloadFailure(models.ReasonOf(err), err))
	}

	stream, ok := info.Stream(key)
	if !ok {
		return nil, s.fail(models.NewDownloadFailure(models.ReasonStreamNotFound,
			errors.Wrapf(ErrStreamNotFound, "no progressive stream '%s'", key)))
	}

	return s.DownloadStream(ctx, stream, filename)
}

func (s *DownloadService) DownloadStream(ctx context.Context, stream models.StreamOption, filename string) (*models.DownloadResult, error) {
	name, err := normalizeFilename(filename)
	if err != nil {
		return nil, s.fail(models.NewDownloadFailure(models.ReasonInvalidFilename, err))
	}

	h := stream.Handle()
	log.Logger.Infow("download started", "url", h.VideoURL, "format", h.FormatID, "file", name)

	if err := s.client.Download(ctx, h.VideoURL, h.FormatID, s.dir, name); err != nil {
		return nil, s.fail(models.NewDownloadFailure(downloadReason(ctx, err), err))
	}

	path := filepath.Join(s.dir, name)
	fi, err := os.Stat(path)
	if err != nil {
		return nil, s.fail(models.NewDownloadFailure(downloadReason(ctx, err), err))
	}

	s.succeeded.Inc()
	log.Logger.Infow("download finished", "path", path, "size", fi.Size())

	return &models.DownloadResult{
		Filename: name,
		Path:     path,
		Size:     fi.Size(),
	}, nil
}

// Stats returns the number of succeeded and failed downloads since start.
func (s *DownloadService) Stats() (succeeded, failed int64) {
	return s.succeeded.Load(), s.failed.Load()
}

func (s *DownloadService) fail(f *models.DownloadFailure) error {
	s.failed.Inc()
	log.Logger.Warnw("download failed", "reason", f.Reason, "error", f.Err)

	return f
}

// SuccessMessage is shown to the user once a download completed.
func SuccessMessage(res *models.DownloadResult) string {
	if res.Size > 0 {
		return fmt.Sprintf("✅ Downloaded %s (%s)!", res.Filename, humanize.Bytes(uint64(res.Size)))
	}

	return fmt.Sprintf("✅ Downloaded %s!", res.Filename)
}

func normalizeFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if len(name) == 0 {
		return "", ErrEmptyFilename
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Wrapf(ErrInvalidFilename, "'%s'", name)
	}

	return name + downloadExt, nil
}

func downloadReason(ctx context.Context, err error) models.Reason {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.ReasonCanceled
	}

	if errors.Is(err, os.ErrPermission) {
		return models.ReasonPermission
	}

	var extErr *ytdlp.ExtractorError
	if errors.As(err, &extErr) {
		if strings.Contains(strings.ToLower(extErr.Message), "permission denied") {
			return models.ReasonPermission
		}
		return models.ReasonExtractor
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return models.ReasonIO
	}

	return models.ReasonExtractor
}
