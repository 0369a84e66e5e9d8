package app

import (
	"context"

	"github.com/far4599/ytd-web/internal/app/bot"
	"github.com/far4599/ytd-web/internal/app/web"
	"github.com/far4599/ytd-web/internal/config"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/pkg/ytdlp"
	"github.com/far4599/ytd-web/internal/repository"
	"github.com/far4599/ytd-web/internal/service"
	"golang.org/x/sync/errgroup"
)

type App struct {
	conf *config.Config
}

func NewApp(conf *config.Config) *App {
	return &App{
		conf: conf,
	}
}

func (app *App) Run(ctx context.Context) error {
	inMemRepo, err := repository.NewInMemRepository(app.conf.Cache.Size)
	if err != nil {
		return err
	}

	client := &timeoutClient{
		Client:  ytdlp.NewRunner(app.conf.YtDlp.Binary, app.conf.YtDlp.CacheDir, app.conf.YtDlp.MaxRetry),
		timeout: app.conf.YtDlp.Timeout,
	}

	vs, err := service.NewVideoService(client, inMemRepo)
	if err != nil {
		return err
	}
	vs.WithTimeout(app.conf.YtDlp.Timeout)

	ds, err := service.NewDownloadService(client, vs, app.conf.Downloads.Dir)
	if err != nil {
		return err
	}

	// everything that can fail is built before the first goroutine starts
	runners, err := app.newRunners(vs, ds)
	if err != nil {
		return err
	}

	errGroup, errCtx := errgroup.WithContext(ctx)
	for _, run := range runners {
		run := run
		errGroup.Go(func() error {
			return run(errCtx)
		})
	}

	return errGroup.Wait()
}

func (app *App) newRunners(vs *service.VideoService, ds *service.DownloadService) ([]func(context.Context) error, error) {
	runners := []func(context.Context) error{
		web.NewServer(app.conf, vs, ds).Run,
	}

	if len(app.conf.Telegram.Bot.Token) == 0 {
		log.Logger.Info("telegram bot token is not set, bot is disabled")
		return runners, nil
	}

	b, err := bot.NewApp(app.conf, vs, ds)
	if err != nil {
		return nil, err
	}

	return append(runners, b.Run), nil
}
