package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/far4599/ytd-web/internal/pkg/ytdlp"
	"github.com/far4599/ytd-web/internal/repository"
	"go.uber.org/atomic"
)

// fakeClient stands in for yt-dlp.
type fakeClient struct {
	info    *ytdlp.Info
	infoErr error
	// downloadErr maps a format id to the error its download returns.
	downloadErr map[string]error
	// skipWrite makes downloads succeed without creating a file.
	skipWrite bool
	// block, if set, delays Info until closed.
	block chan struct{}

	infoCalls *atomic.Int32

	mu        sync.Mutex
	downloads []string
}

func newFakeClient(info *ytdlp.Info) *fakeClient {
	return &fakeClient{
		info:        info,
		downloadErr: map[string]error{},
		infoCalls:   atomic.NewInt32(0),
	}
}

func (c *fakeClient) Info(ctx context.Context, url string) (*ytdlp.Info, error) {
	c.infoCalls.Inc()

	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if c.infoErr != nil {
		return nil, c.infoErr
	}

	return c.info, nil
}

func (c *fakeClient) Download(_ context.Context, url, formatID, dir, filename string) error {
	c.mu.Lock()
	c.downloads = append(c.downloads, formatID+":"+filename)
	c.mu.Unlock()

	if err := c.downloadErr[formatID]; err != nil {
		return err
	}
	if c.skipWrite {
		return nil
	}

	return os.WriteFile(filepath.Join(dir, filename), []byte("video"), 0644)
}

func sampleInfo() *ytdlp.Info {
	return &ytdlp.Info{
		Title:     "Sample Video",
		Thumbnail: "https://i.ytimg.com/vi/abc/hqdefault.jpg",
		Duration:  125.4,
		Formats: []ytdlp.Format{
			{ID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2", Protocol: "https", ABR: 129},
			{ID: "18", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a.40.2", Protocol: "https", FormatNote: "360p", TBR: 700.6},
			{ID: "137", Ext: "mp4", VCodec: "avc1", ACodec: "none", Protocol: "https", FormatNote: "1080p", TBR: 4000},
		},
	}
}

func twoStreamInfo() *ytdlp.Info {
	info := sampleInfo()
	info.Formats = append(info.Formats,
		ytdlp.Format{ID: "22", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a.40.2", Protocol: "https", FormatNote: "720p60", TBR: 1500})

	return info
}

func newTestVideoService(client ytdlp.Client, size int) *VideoService {
	repo, err := repository.NewInMemRepository(size)
	if err != nil {
		panic(err)
	}

	vs, err := NewVideoService(client, repo)
	if err != nil {
		panic(err)
	}

	return vs
}
