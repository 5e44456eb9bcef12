package channels

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/slack-go/slack"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/config"
	"github.com/DukkanBot/DukkanBot/internal/menu"
)

func consumeOne(t *testing.T, b *bus.Bus) *bus.Inbound {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := b.ConsumeInbound(ctx)
	if err != nil {
		t.Fatalf("no inbound event: %v", err)
	}
	return ev
}

func TestTelegramMarkup(t *testing.T) {
	rows := [][]bus.Button{
		{{Label: "Pizza Hut", OpenURL: "https://pizzahut.example"}},
		{{Label: "Edit", Token: "edit_shop_1"}, {Label: "Delete", Token: "delete_shop_1"}},
	}
	markup := telegramMarkup(rows)
	if markup == nil || len(markup.InlineKeyboard) != 2 {
		t.Fatalf("unexpected markup: %+v", markup)
	}
	link := markup.InlineKeyboard[0][0]
	if link.URL == nil || *link.URL != "https://pizzahut.example" || link.CallbackData != nil {
		t.Errorf("url button malformed: %+v", link)
	}
	edit := markup.InlineKeyboard[1][0]
	if edit.CallbackData == nil || *edit.CallbackData != "edit_shop_1" {
		t.Errorf("action button malformed: %+v", edit)
	}
	if got := len(markup.InlineKeyboard[1]); got != 2 {
		t.Errorf("row collapsed to %d buttons", got)
	}

	if m := telegramMarkup(nil); m != nil {
		t.Errorf("body-only render should have no keyboard, got %+v", m)
	}
}

func TestTelegramCommandsAndText(t *testing.T) {
	b := bus.New()
	c := NewTelegramChannel(config.TelegramConfig{}, b)

	msg := func(text string) tgbotapi.Update {
		m := &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: 42},
			From: &tgbotapi.User{ID: 7},
		}
		if len(text) > 0 && text[0] == '/' {
			m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
		}
		return tgbotapi.Update{Message: m}
	}

	c.handleUpdate(msg("/start"))
	ev := consumeOne(t, b)
	if ev.Kind != bus.KindAction || ev.Token != menu.TokenStart {
		t.Errorf("/start mapped to %+v", ev)
	}
	if ev.Channel != "telegram" || ev.ChatID != "42" || ev.SenderID != "7" {
		t.Errorf("identity fields wrong: %+v", ev)
	}
	if ev.TraceID == "" {
		t.Error("missing trace id")
	}

	c.handleUpdate(msg("/admin"))
	if ev := consumeOne(t, b); ev.Token != menu.TokenAdmin {
		t.Errorf("/admin mapped to %q", ev.Token)
	}

	c.handleUpdate(msg("Pizza Hut\npizzahut.example"))
	ev = consumeOne(t, b)
	if ev.Kind != bus.KindText || ev.Content != "Pizza Hut\npizzahut.example" {
		t.Errorf("text mapped to %+v", ev)
	}
}

func TestSlackBlocks(t *testing.T) {
	r := &bus.Render{
		Body: "Choose:",
		Rows: [][]bus.Button{
			{{Label: "Pizza Hut", OpenURL: "https://pizzahut.example"}},
			{{Label: "Edit", Token: "edit_shop_1"}, {Label: "Delete", Token: "delete_shop_1"}},
		},
	}
	blocks := slackBlocks(r)
	if len(blocks) != 3 {
		t.Fatalf("expected section + 2 action rows, got %d blocks", len(blocks))
	}
	section, ok := blocks[0].(*slack.SectionBlock)
	if !ok || section.Text.Text != "Choose:" {
		t.Fatalf("first block is not the body section: %+v", blocks[0])
	}

	linkRow, ok := blocks[1].(*slack.ActionBlock)
	if !ok || len(linkRow.Elements.ElementSet) != 1 {
		t.Fatalf("unexpected link row: %+v", blocks[1])
	}
	linkBtn := linkRow.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	if linkBtn.URL != "https://pizzahut.example" {
		t.Errorf("url button missing url: %+v", linkBtn)
	}

	actionRow := blocks[2].(*slack.ActionBlock)
	first := actionRow.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	second := actionRow.Elements.ElementSet[1].(*slack.ButtonBlockElement)
	if first.Value != "edit_shop_1" || second.Value != "delete_shop_1" {
		t.Errorf("token values wrong: %q %q", first.Value, second.Value)
	}
	if first.ActionID == second.ActionID {
		t.Error("action ids must be unique within a message")
	}
}

func TestSlackSlashCommands(t *testing.T) {
	b := bus.New()
	c := NewSlackChannel(config.SlackConfig{}, b)

	c.handleSlashCommand(slack.SlashCommand{Command: "/start", ChannelID: "D123", UserID: "U7"})
	ev := consumeOne(t, b)
	if ev.Kind != bus.KindAction || ev.Token != menu.TokenStart {
		t.Errorf("/start mapped to %+v", ev)
	}
	if ev.Channel != "slack" || ev.ChatID != "D123" || ev.SenderID != "U7" {
		t.Errorf("identity fields wrong: %+v", ev)
	}

	c.handleSlashCommand(slack.SlashCommand{Command: "/admin", ChannelID: "D123", UserID: "U7"})
	if ev := consumeOne(t, b); ev.Token != menu.TokenAdmin {
		t.Errorf("/admin mapped to %q", ev.Token)
	}
}
