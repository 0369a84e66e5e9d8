package web

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/far4599/ytd-web/internal/config"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/service"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	conf *config.Config

	handler http.Handler
}

func NewServer(conf *config.Config, vs *service.VideoService, ds *service.DownloadService) *Server {
	return &Server{
		conf:    conf,
		handler: NewRouter(NewHandler(vs, ds), newAccessLogger(conf)),
	}
}

// Run serves HTTP until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.conf.HTTP.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Logger.Infow("http server listens", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down http server")
	}

	return nil
}

func newAccessLogger(conf *config.Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(conf.Log.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if conf.Log.Development {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
