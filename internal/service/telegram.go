package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/far4599/ytd-web/internal/models"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/repository"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gopkg.in/tucnak/telebot.v3"
)

const (
	videoEmoji = "🎥"

	filenamePromptTTL = 10 * time.Minute
)

// TelegramMessageHandler exposes the resolver and the downloads over a chat:
// a URL message lists the streams, a button press asks for a file name and
// the next text message starts the download.
type TelegramMessageHandler struct {
	vs *VideoService
	ds *DownloadService

	options *repository.InMemRepository
	pending *cache.Cache
}

func NewMessageHandler(vs *VideoService, ds *DownloadService, options *repository.InMemRepository) *TelegramMessageHandler {
	return &TelegramMessageHandler{
		vs:      vs,
		ds:      ds,
		options: options,
		pending: cache.New(filenamePromptTTL, filenamePromptTTL),
	}
}

func (h *TelegramMessageHandler) OnStart() telebot.HandlerFunc {
	return func(m telebot.Context) error {
		return m.Send("Send me a video link. I'll show the available resolutions and save the one you pick.\n" +
			"⚠️ Downloading copyrighted content without permission might violate terms of service.")
	}
}

func (h *TelegramMessageHandler) OnCallback() telebot.HandlerFunc {
	return func(m telebot.Context) (err error) {
		defer func() {
			if err != nil {
				log.Logger.Error(err)
			}
		}()

		defer m.Respond()

		optionID := strings.TrimSpace(m.Callback().Data)

		opt, ok := repository.GetAs[*models.CachedVideoOption](h.options, optionID)
		if !ok {
			return m.Send("this button has expired, send the link again")
		}

		h.pending.SetDefault(senderKey(m), opt)

		return m.Send("Send me a file name (without extension) for " + opt.Label)
	}
}

func (h *TelegramMessageHandler) OnNewMessage() telebot.HandlerFunc {
	return func(m telebot.Context) error {
		if v, ok := h.pending.Get(senderKey(m)); ok {
			// a new link replaces the pending prompt
			if !isLink(m.Text()) {
				return h.onFilename(m, v.(*models.CachedVideoOption))
			}
			h.pending.Delete(senderKey(m))
		}

		return h.onURL(m)
	}
}

func (h *TelegramMessageHandler) onURL(m telebot.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_ = m.Notify(telebot.Typing)

	videoInfo, err := h.vs.Resolve(ctx, strings.TrimSpace(m.Text()))
	if err != nil {
		return m.Send(err.Error())
	}

	msg, opts := h.createVideoInfoMessage(videoInfo)

	return m.Send(msg, opts...)
}

func (h *TelegramMessageHandler) onFilename(m telebot.Context, opt *models.CachedVideoOption) error {
	h.pending.Delete(senderKey(m))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	_ = m.Notify(telebot.UploadingVideo)

	res, err := h.ds.Download(ctx, opt.URL, opt.Key, m.Text())
	if err != nil {
		return m.Send(err.Error())
	}

	return m.Send(SuccessMessage(res))
}

func (h *TelegramMessageHandler) createVideoInfoMessage(info *models.VideoInfo) (msg any, options []any) {
	caption := info.Title + "\nLength: " + DurationText(info)
	if len(info.Streams) == 0 {
		caption += "\nNo progressive streams available."
	}

	if len(info.ThumbnailURL) > 0 {
		msg = &telebot.Photo{
			File: telebot.File{
				FileURL: info.ThumbnailURL,
			},
			Caption: caption,
		}
	} else {
		msg = caption
	}

	if len(info.Streams) > 0 {
		inlineMenu := &telebot.ReplyMarkup{}

		rows := make([]telebot.Row, 0, len(info.Streams))
		for _, s := range info.Streams {
			id := h.saveOption(info.URL, s)
			title := videoEmoji + " " + StreamLabel(s)

			rows = append(rows, inlineMenu.Row(inlineMenu.Data(title, id)))
		}

		inlineMenu.Inline(rows...)

		options = append(options, inlineMenu)
	}

	return
}

func (h *TelegramMessageHandler) saveOption(videoURL string, s models.StreamOption) string {
	id := uuid.New().String()

	h.options.Add(id, &models.CachedVideoOption{
		URL:   videoURL,
		Key:   s.Key,
		Label: StreamLabel(s),
	})

	return id
}

func isLink(text string) bool {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && len(u.Host) > 0
}

func senderKey(m telebot.Context) string {
	return strconv.FormatInt(m.Sender().ID, 10)
}
