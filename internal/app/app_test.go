package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/far4599/ytd-web/internal/config"
	"github.com/far4599/ytd-web/internal/repository"
	"github.com/far4599/ytd-web/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	conf, err := config.NewConfig(context.Background(), "")
	require.NoError(t, err)

	conf.HTTP.Addr = "127.0.0.1:0"
	conf.Downloads.Dir = filepath.Join(t.TempDir(), "downloads")
	conf.Telegram.Bot.Token = ""

	return conf
}

func TestApp_NewRunners(t *testing.T) {
	conf := testConfig(t)

	repo, err := repository.NewInMemRepository(4)
	require.NoError(t, err)
	client := &deadlineClient{}
	vs, err := service.NewVideoService(client, repo)
	require.NoError(t, err)
	ds, err := service.NewDownloadService(client, vs, conf.Downloads.Dir)
	require.NoError(t, err)

	app := NewApp(conf)

	runners, err := app.newRunners(vs, ds)
	require.NoError(t, err)
	assert.Len(t, runners, 1)

	// building the bot does not connect to telegram yet
	conf.Telegram.Bot.Token = "123:abc"
	runners, err = app.newRunners(vs, ds)
	require.NoError(t, err)
	assert.Len(t, runners, 2)
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewApp(testConfig(t)).Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
