package channels

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/config"
	"github.com/DukkanBot/DukkanBot/internal/menu"
)

// SlackChannel runs a Socket Mode connection. Buttons are Block Kit action
// elements whose value carries the token; /start and /admin slash commands
// map to the root actions. Renders triggered by a button press update the
// originating message via chat.update.
type SlackChannel struct {
	BaseChannel
	config config.SlackConfig
	api    *slack.Client
	socket *socketmode.Client

	mu   sync.Mutex
	edit map[string]string // channel id -> message ts to update on next render
}

func NewSlackChannel(cfg config.SlackConfig, messageBus *bus.Bus) *SlackChannel {
	return &SlackChannel{
		BaseChannel: BaseChannel{Bus: messageBus},
		config:      cfg,
		edit:        make(map[string]string),
	}
}

func (c *SlackChannel) Name() string { return "slack" }

func (c *SlackChannel) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}
	c.api = slack.New(c.config.BotToken, slack.OptionAppLevelToken(c.config.AppToken))
	c.socket = socketmode.New(c.api)

	c.Bus.Subscribe(c.Name(), func(r *bus.Render) {
		if err := c.Send(ctx, r); err != nil {
			slog.Error("slack send failed", "chat_id", r.ChatID, "trace_id", r.TraceID, "error", err)
		}
	})

	go c.runEvents(ctx)
	go func() {
		if err := c.socket.RunContext(ctx); err != nil && ctx.Err() == nil {
			slog.Error("slack socket mode stopped", "error", err)
		}
	}()
	slog.Info("slack channel started")
	return nil
}

func (c *SlackChannel) Stop() error { return nil }

func (c *SlackChannel) runEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.socket.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				if evt.Request != nil {
					c.socket.Ack(*evt.Request)
				}
				ev, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok || ev.Type != slackevents.CallbackEvent {
					continue
				}
				if in, ok := ev.InnerEvent.Data.(*slackevents.MessageEvent); ok {
					c.handleMessage(in)
				}
			case socketmode.EventTypeSlashCommand:
				if evt.Request != nil {
					c.socket.Ack(*evt.Request)
				}
				if cmd, ok := evt.Data.(slack.SlashCommand); ok {
					c.handleSlashCommand(cmd)
				}
			case socketmode.EventTypeInteractive:
				if evt.Request != nil {
					c.socket.Ack(*evt.Request)
				}
				if cb, ok := evt.Data.(slack.InteractionCallback); ok {
					c.handleInteraction(cb)
				}
			}
		}
	}
}

func (c *SlackChannel) handleMessage(in *slackevents.MessageEvent) {
	// Only direct messages drive conversations; ignore bot echo and edits.
	if in == nil || in.BotID != "" || in.SubType != "" || in.ChannelType != "im" {
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		return
	}
	c.mu.Lock()
	delete(c.edit, in.Channel)
	c.mu.Unlock()
	c.publish(in.Channel, in.User, bus.KindText, in.Text)
}

func (c *SlackChannel) handleSlashCommand(cmd slack.SlashCommand) {
	switch cmd.Command {
	case "/start":
		c.publish(cmd.ChannelID, cmd.UserID, bus.KindAction, menu.TokenStart)
	case "/admin":
		c.publish(cmd.ChannelID, cmd.UserID, bus.KindAction, menu.TokenAdmin)
	}
}

func (c *SlackChannel) handleInteraction(cb slack.InteractionCallback) {
	if len(cb.ActionCallback.BlockActions) == 0 {
		return
	}
	token := strings.TrimSpace(cb.ActionCallback.BlockActions[0].Value)
	if token == "" {
		return
	}
	if ts := cb.Container.MessageTs; ts != "" {
		c.mu.Lock()
		c.edit[cb.Channel.ID] = ts
		c.mu.Unlock()
	}
	c.publish(cb.Channel.ID, cb.User.ID, bus.KindAction, token)
}

func (c *SlackChannel) publish(chatID, senderID, kind, payload string) {
	ev := &bus.Inbound{
		Channel:  c.Name(),
		ChatID:   chatID,
		SenderID: senderID,
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

func (c *SlackChannel) Send(ctx context.Context, r *bus.Render) error {
	blocks := slackBlocks(r)
	opts := []slack.MsgOption{
		slack.MsgOptionText(r.Body, false),
		slack.MsgOptionBlocks(blocks...),
	}

	c.mu.Lock()
	ts, editable := c.edit[r.ChatID]
	delete(c.edit, r.ChatID)
	c.mu.Unlock()

	if editable {
		if _, _, _, err := c.api.UpdateMessageContext(ctx, r.ChatID, ts, opts...); err == nil {
			return nil
		}
	}
	if _, _, err := c.api.PostMessageContext(ctx, r.ChatID, opts...); err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}

// slackBlocks converts a render to Block Kit: a section with the body, then
// one actions block per button row.
func slackBlocks(r *bus.Render) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, r.Body, true, false), nil, nil),
	}
	for i, row := range r.Rows {
		elements := make([]slack.BlockElement, 0, len(row))
		for j, b := range row {
			// Action IDs must be unique within a message; tokens may repeat
			// (separators), so derive the id from the position.
			id := fmt.Sprintf("btn_%d_%d", i, j)
			label := slack.NewTextBlockObject(slack.PlainTextType, b.Label, true, false)
			btn := slack.NewButtonBlockElement(id, b.Token, label)
			if b.OpenURL != "" {
				btn.Value = menu.TokenNoop
				btn.URL = b.OpenURL
			}
			elements = append(elements, btn)
		}
		blocks = append(blocks, slack.NewActionBlock(fmt.Sprintf("row_%d", i), elements...))
	}
	return blocks
}
