package bot

import (
	"context"

	"github.com/far4599/ytd-web/internal/config"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/pkg/telegram"
	"github.com/far4599/ytd-web/internal/repository"
	"github.com/far4599/ytd-web/internal/service"
	"gopkg.in/tucnak/telebot.v3"
)

// callbackOptionsSize bounds the number of live inline buttons.
const callbackOptionsSize = 10_000

type Bot struct {
	conf *config.Config

	tmh *service.TelegramMessageHandler
}

func NewApp(conf *config.Config, vs *service.VideoService, ds *service.DownloadService) (*Bot, error) {
	options, err := repository.NewInMemRepository(callbackOptionsSize)
	if err != nil {
		return nil, err
	}

	return &Bot{
		conf: conf,
		tmh:  service.NewMessageHandler(vs, ds, options),
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	bot, err := telegram.NewBotClient(b.conf.Telegram.Bot.Token)
	if err != nil {
		return err
	}

	b.setMessageHandlers(bot)

	log.Logger.Info("bot listens to new messages")
	bot.Run(ctx)

	return nil
}

func (b *Bot) setMessageHandlers(botClient *telegram.BotClient) {
	bot := botClient.Bot()

	bot.Handle("/start", b.tmh.OnStart())
	bot.Handle(telebot.OnText, b.tmh.OnNewMessage())
	bot.Handle(telebot.OnCallback, b.tmh.OnCallback())
}
