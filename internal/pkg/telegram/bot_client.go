package telegram

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/tucnak/telebot.v3"
)

type BotClient struct {
	bot *telebot.Bot
}

func NewBotClient(token string) (*BotClient, error) {
	pref := telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to telegram bot api")
	}

	return &BotClient{
		bot: bot,
	}, nil
}

func (c *BotClient) Bot() *telebot.Bot {
	return c.bot
}

// Run polls for updates until ctx is done.
func (c *BotClient) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.bot.Stop()
	}()

	c.bot.Start()
}
