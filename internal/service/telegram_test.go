package service

import (
	"testing"

	"github.com/far4599/ytd-web/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/tucnak/telebot.v3"
)

// fakeContext implements the parts of telebot.Context the handler uses.
// Calling anything else panics on the nil embedded interface.
type fakeContext struct {
	telebot.Context

	sender   *telebot.User
	text     string
	callback *telebot.Callback

	sent []any
	opts [][]any
}

func (c *fakeContext) Sender() *telebot.User           { return c.sender }
func (c *fakeContext) Text() string                    { return c.text }
func (c *fakeContext) Callback() *telebot.Callback     { return c.callback }
func (c *fakeContext) Notify(telebot.ChatAction) error { return nil }

func (c *fakeContext) Respond(...*telebot.CallbackResponse) error { return nil }

func (c *fakeContext) Send(what any, opts ...any) error {
	c.sent = append(c.sent, what)
	c.opts = append(c.opts, opts)
	return nil
}

func newTestMessageHandler(t *testing.T, client *fakeClient) *TelegramMessageHandler {
	t.Helper()

	options, err := repository.NewInMemRepository(16)
	require.NoError(t, err)

	ds := newTestDownloadService(t, client)

	return NewMessageHandler(ds.videos, ds, options)
}

func TestTelegramMessageHandler_Flow(t *testing.T) {
	client := newFakeClient(twoStreamInfo())
	h := newTestMessageHandler(t, client)
	user := &telebot.User{ID: 42}

	// URL message
	m := &fakeContext{sender: user, text: " " + sampleURL + " "}
	require.NoError(t, h.OnNewMessage()(m))
	require.Len(t, m.sent, 1)

	photo, ok := m.sent[0].(*telebot.Photo)
	require.True(t, ok)
	assert.Equal(t, "https://i.ytimg.com/vi/abc/hqdefault.jpg", photo.FileURL)
	assert.Equal(t, "Sample Video\nLength: 2.09 minutes", photo.Caption)

	require.Len(t, m.opts[0], 1)
	markup := m.opts[0][0].(*telebot.ReplyMarkup)
	require.Len(t, markup.InlineKeyboard, 2)
	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, "🎥 360p (700kbps)", btn.Text)

	// button press
	m = &fakeContext{sender: user, callback: &telebot.Callback{Data: "\f" + btn.Unique}}
	require.NoError(t, h.OnCallback()(m))
	assert.Equal(t, []any{"Send me a file name (without extension) for 360p (700kbps)"}, m.sent)

	// file name
	m = &fakeContext{sender: user, text: "myclip"}
	require.NoError(t, h.OnNewMessage()(m))
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0], "myclip.mp4")
	assert.FileExists(t, h.ds.Dir()+"/myclip.mp4")

	// the prompt is consumed, the next text is a URL again
	_, pending := h.pending.Get(senderKey(m))
	assert.False(t, pending)
}

func TestTelegramMessageHandler_ResolveError(t *testing.T) {
	client := newFakeClient(nil)
	client.infoErr = assert.AnError
	h := newTestMessageHandler(t, client)

	m := &fakeContext{sender: &telebot.User{ID: 1}, text: "not a url"}
	require.NoError(t, h.OnNewMessage()(m))

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0], assert.AnError.Error())
}

func TestTelegramMessageHandler_ExpiredButton(t *testing.T) {
	h := newTestMessageHandler(t, newFakeClient(sampleInfo()))

	m := &fakeContext{sender: &telebot.User{ID: 1}, callback: &telebot.Callback{Data: "\funknown"}}
	require.NoError(t, h.OnCallback()(m))

	assert.Equal(t, []any{"this button has expired, send the link again"}, m.sent)
}

func TestTelegramMessageHandler_NoStreams(t *testing.T) {
	raw := sampleInfo()
	raw.Thumbnail = ""
	raw.Formats = nil
	h := newTestMessageHandler(t, newFakeClient(raw))

	m := &fakeContext{sender: &telebot.User{ID: 1}, text: sampleURL}
	require.NoError(t, h.OnNewMessage()(m))

	assert.Equal(t, []any{"Sample Video\nLength: 2.09 minutes\nNo progressive streams available."}, m.sent)
	assert.Empty(t, m.opts[0])
}

func TestTelegramMessageHandler_LinkReplacesPendingPrompt(t *testing.T) {
	client := newFakeClient(twoStreamInfo())
	h := newTestMessageHandler(t, client)
	user := &telebot.User{ID: 7}

	m := &fakeContext{sender: user, text: sampleURL}
	require.NoError(t, h.OnNewMessage()(m))
	btn := m.opts[0][0].(*telebot.ReplyMarkup).InlineKeyboard[0][0]

	m = &fakeContext{sender: user, callback: &telebot.Callback{Data: "\f" + btn.Unique}}
	require.NoError(t, h.OnCallback()(m))

	// a link instead of a file name is resolved as a new video
	other := "https://youtu.be/other"
	m = &fakeContext{sender: user, text: other}
	require.NoError(t, h.OnNewMessage()(m))

	require.Len(t, m.sent, 1)
	_, isPhoto := m.sent[0].(*telebot.Photo)
	assert.True(t, isPhoto)
	assert.Empty(t, client.downloads)
	assert.Equal(t, int32(2), client.infoCalls.Load())

	_, pending := h.pending.Get(senderKey(m))
	assert.False(t, pending)
}

func TestIsLink(t *testing.T) {
	assert.True(t, isLink(" https://www.youtube.com/watch?v=abc "))
	assert.True(t, isLink("http://youtu.be/abc"))
	assert.False(t, isLink("myclip"))
	assert.False(t, isLink("my/clip"))
	assert.False(t, isLink("ftp://host/file"))
	assert.False(t, isLink("https://"))
}
