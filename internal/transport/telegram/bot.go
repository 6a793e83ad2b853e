package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/service/command"
	"github.com/sandevgo/chatlens/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Bot captures group conversations it is a member of and answers the
// owner's commands, in private or in the watched group.
type Bot struct {
	bot     *tele.Bot
	engine  command.Engine
	router  core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	engine command.Engine,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		engine:  engine,
		router:  router,
		sender:  newSender(b),
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleText)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	chat := c.Chat()
	if chat == nil || c.Message() == nil {
		return nil
	}

	owner := c.Sender() != nil && c.Sender().ID == b.ownerID
	text := strings.TrimSpace(c.Text())

	if chat.Type == tele.ChatPrivate {
		if !owner {
			return nil // Ignore unauthorized users
		}
		return b.handleOwner(ctx, c, chat, text)
	}

	if owner && strings.HasPrefix(text, "/") {
		return b.handleOwner(ctx, c, chat, text)
	}

	chatID := strconv.FormatInt(chat.ID, 10)
	res := b.engine.SubmitMessage(ctx, chatID, toMessage(c.Message()))
	if !res.OK() {
		log.FromCtx(ctx).Warn().Str("chat_id", chatID).Str("error", res.Error).Msg("capture failed")
	}
	return nil
}

// handleOwner runs a command, or sends free text to the assistant.
func (b *Bot) handleOwner(ctx context.Context, c tele.Context, chat *tele.Chat, text string) error {
	chatID := strconv.FormatInt(chat.ID, 10)
	text = watchHere(text, chat)

	_ = c.Notify(tele.Typing)

	out, ok := b.router.Execute(ctx, chatID, text)
	if !ok {
		res := b.engine.Ask(ctx, text, "")
		if !res.OK() {
			out = res.Error
		} else {
			out = res.Response
		}
	}
	return b.sender.sendReport(ctx, chat, out)
}

// watchHere expands a bare /watch sent in a group to that group's id and title.
func watchHere(text string, chat *tele.Chat) string {
	if chat.Type == tele.ChatPrivate {
		return text
	}
	name := strings.Fields(text)
	if len(name) != 1 || !strings.HasPrefix(name[0], "/watch") {
		return text
	}
	return fmt.Sprintf("/watch %d %s %s", chat.ID, core.PlatformTelegram, chat.Title)
}

func toMessage(m *tele.Message) core.Message {
	msg := core.Message{
		ID:        strconv.Itoa(m.ID),
		Text:      m.Text,
		Sender:    displayName(m.Sender),
		Timestamp: m.Unixtime * 1000,
	}
	if m.Chat != nil {
		msg.ChatID = strconv.FormatInt(m.Chat.ID, 10)
	}
	if m.ReplyTo != nil {
		msg.ReplyTo = displayName(m.ReplyTo.Sender)
	}
	return msg
}

func displayName(u *tele.User) string {
	if u == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = strconv.FormatInt(u.ID, 10)
	}
	return name
}
