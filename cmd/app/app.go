package main

import (
	"flag"

	"github.com/far4599/ytd-web/internal/app"
	"github.com/far4599/ytd-web/internal/config"
	"github.com/far4599/ytd-web/internal/pkg/context"
	"github.com/far4599/ytd-web/internal/pkg/log"
	_ "go.uber.org/automaxprocs"
)

var flagConfigFile = flag.String("f", "", "path to configuration yaml file")

func main() {
	flag.Parse()

	ctx := context.NewSignalledContext()

	conf, err := config.NewConfig(ctx, *flagConfigFile)
	if err != nil {
		log.Logger.Fatalw("failed to load config", "error", err)
	}

	if err = log.Init(conf.Log.Level, conf.Log.Development); err != nil {
		log.Logger.Fatalw("failed to init logger", "error", err)
	}
	defer log.Logger.Sync()

	if err = app.NewApp(conf).Run(ctx); err != nil {
		log.Logger.Fatalw("app exited unexpectedly", "error", err)
	}
}
