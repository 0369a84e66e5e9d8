package app

import (
	"context"
	"time"

	"github.com/far4599/ytd-web/internal/pkg/ytdlp"
)

// timeoutClient bounds every yt-dlp call.
type timeoutClient struct {
	ytdlp.Client

	timeout time.Duration
}

func (c *timeoutClient) Info(ctx context.Context, url string) (*ytdlp.Info, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.Client.Info(ctx, url)
}

func (c *timeoutClient) Download(ctx context.Context, url, formatID, dir, filename string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.Client.Download(ctx, url, formatID, dir, filename)
}

func (c *timeoutClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.timeout)
}
