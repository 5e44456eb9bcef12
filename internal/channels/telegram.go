package channels

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/config"
	"github.com/DukkanBot/DukkanBot/internal/menu"
)

// TelegramChannel bridges Telegram long polling to the bus. Button presses
// arrive as callback queries carrying the action token; renders triggered by
// a button press edit the originating message in place instead of posting a
// new one.
type TelegramChannel struct {
	BaseChannel
	config config.TelegramConfig
	bot    *tgbotapi.BotAPI

	mu   sync.Mutex
	edit map[int64]int // chat id -> message id to edit on next render
}

func NewTelegramChannel(cfg config.TelegramConfig, messageBus *bus.Bus) *TelegramChannel {
	return &TelegramChannel{
		BaseChannel: BaseChannel{Bus: messageBus},
		config:      cfg,
		edit:        make(map[int64]int),
	}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(c.config.Token)
	if err != nil {
		return fmt.Errorf("telegram connect: %w", err)
	}
	c.bot = bot
	slog.Info("telegram channel started", "bot", bot.Self.UserName)

	c.Bus.Subscribe(c.Name(), func(r *bus.Render) {
		if err := c.Send(ctx, r); err != nil {
			slog.Error("telegram send failed", "chat_id", r.ChatID, "trace_id", r.TraceID, "error", err)
		}
	})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.handleUpdate(update)
			}
		}
	}()
	return nil
}

func (c *TelegramChannel) Stop() error {
	if c.bot != nil {
		c.bot.StopReceivingUpdates()
	}
	return nil
}

func (c *TelegramChannel) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil {
			return
		}
		// Ack so the client stops showing a spinner.
		if _, err := c.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			slog.Warn("telegram callback ack failed", "error", err)
		}
		chatID := cb.Message.Chat.ID
		c.mu.Lock()
		c.edit[chatID] = cb.Message.MessageID
		c.mu.Unlock()
		c.publish(chatID, cb.From.ID, bus.KindAction, cb.Data)

	case update.Message != nil:
		msg := update.Message
		c.mu.Lock()
		delete(c.edit, msg.Chat.ID)
		c.mu.Unlock()
		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				c.publish(msg.Chat.ID, msg.From.ID, bus.KindAction, menu.TokenStart)
			case "admin":
				c.publish(msg.Chat.ID, msg.From.ID, bus.KindAction, menu.TokenAdmin)
			}
			return
		}
		if strings.TrimSpace(msg.Text) == "" {
			return
		}
		c.publish(msg.Chat.ID, msg.From.ID, bus.KindText, msg.Text)
	}
}

func (c *TelegramChannel) publish(chatID, senderID int64, kind, payload string) {
	ev := &bus.Inbound{
		Channel:  c.Name(),
		ChatID:   strconv.FormatInt(chatID, 10),
		SenderID: strconv.FormatInt(senderID, 10),
		TraceID:  uuid.NewString(),
		Kind:     kind,
	}
	if kind == bus.KindAction {
		ev.Token = payload
	} else {
		ev.Content = payload
	}
	c.Bus.PublishInbound(ev)
}

func (c *TelegramChannel) Send(ctx context.Context, r *bus.Render) error {
	chatID, err := strconv.ParseInt(r.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram chat id %q: %w", r.ChatID, err)
	}
	markup := telegramMarkup(r.Rows)

	c.mu.Lock()
	messageID, editable := c.edit[chatID]
	delete(c.edit, chatID)
	c.mu.Unlock()

	if editable {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, r.Body)
		if markup != nil {
			edit.ReplyMarkup = markup
		}
		if _, err := c.bot.Send(edit); err == nil {
			return nil
		}
		// Editing can fail when the message is too old; fall through to a
		// fresh message.
	}

	msg := tgbotapi.NewMessage(chatID, r.Body)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err = c.bot.Send(msg)
	return err
}

// telegramMarkup converts render rows to an inline keyboard. Returns nil for
// a body-only render.
func telegramMarkup(rows [][]bus.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.OpenURL != "" {
				line = append(line, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.OpenURL))
				continue
			}
			line = append(line, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		keyboard = append(keyboard, line)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	return &markup
}
