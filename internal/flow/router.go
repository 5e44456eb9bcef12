// Package flow is the conversation core: it routes every incoming event to
// the handler for the current state and is the sole authority for advancing
// conversation state.
package flow

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/menu"
	"github.com/DukkanBot/DukkanBot/internal/session"
	"github.com/DukkanBot/DukkanBot/internal/store"
)

const (
	msgGenericFailure = "❌ Something went wrong. Please try again."
	msgTwoLines       = "❌ Wrong format. Send exactly two lines:\n%s"
)

// Conversation bundles the identity and scratch state a handler works with.
type Conversation struct {
	Key      string
	Channel  string
	ChatID   string
	SenderID string
	Session  *session.Session
}

// Router dispatches (state, event) pairs to handlers. Handlers read and
// write the session and the store, then return the next state and a view;
// the router owns the state map.
type Router struct {
	store    *store.Store
	sessions *session.Manager
	adminIDs map[string]bool

	mu     sync.Mutex
	states map[string]State
}

// New creates a router. adminIDs are operator identities, matched against
// the bare sender id or the channel-qualified "channel:sender" form.
func New(st *store.Store, sessions *session.Manager, adminIDs []string) *Router {
	ids := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = true
		}
	}
	return &Router{
		store:    st,
		sessions: sessions,
		adminIDs: ids,
		states:   make(map[string]State),
	}
}

func (r *Router) isAdmin(conv *Conversation) bool {
	return r.adminIDs[conv.SenderID] || r.adminIDs[conv.Channel+":"+conv.SenderID]
}

// StateOf reports the current state of a conversation.
func (r *Router) StateOf(key string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[key]
}

func (r *Router) setState(key string, s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[key] = s
}

// Dispatch processes one inbound event to completion: state read, handler
// run, state written, render returned. Callers serialize events per
// conversation (the Run loop drains the bus with a single consumer).
func (r *Router) Dispatch(ev *bus.Inbound) *bus.Render {
	key := ev.ConversationKey()
	conv := &Conversation{
		Key:      key,
		Channel:  ev.Channel,
		ChatID:   ev.ChatID,
		SenderID: ev.SenderID,
		Session:  r.sessions.GetOrCreate(key),
	}
	current := r.StateOf(key)
	event := ParseInbound(ev)

	next, view := r.route(current, conv, event)
	r.setState(key, next)

	if current != next {
		slog.Debug("conversation advanced",
			"conversation", key, "from", current.String(), "to", next.String(), "trace_id", ev.TraceID)
	}
	return &bus.Render{
		Channel: ev.Channel,
		ChatID:  ev.ChatID,
		TraceID: ev.TraceID,
		Body:    view.Body,
		Rows:    view.Rows,
	}
}

func (r *Router) route(current State, conv *Conversation, event Event) (State, menu.View) {
	// Identity-gated branching happens only here, at the root transition.
	switch event.(type) {
	case Reset:
		conv.Session.Clear()
		if r.isAdmin(conv) {
			return StateAdminMenu, menu.AdminMenu()
		}
		return StateMainMenu, menu.Main()
	case AdminCommand:
		if r.isAdmin(conv) {
			return StateAdminMenu, menu.AdminMenu()
		}
		return StateMainMenu, menu.AdminDenied()
	}

	switch current {
	case StateMainMenu:
		return r.handleMainMenu(conv, event)
	case StateAdminMenu:
		return r.handleAdminMenu(conv, event)
	case StateAddShop:
		return r.handleAddShop(conv, event)
	case StateShowShopsAdmin:
		return r.handleShowShopsAdmin(conv, event)
	case StateEditShop:
		return r.handleEditShop(conv, event)
	case StateDeleteShopConfirm:
		return r.handleDeleteShopConfirm(conv, event)
	case StateManageAgents:
		return r.handleManageAgents(conv, event)
	case StateAddAgent:
		return r.handleAddAgent(conv, event)
	case StateEditAgentDetails:
		return r.handleEditAgentDetails(conv, event)
	case StateDeleteAgentConfirm:
		return r.handleDeleteAgentConfirm(conv, event)
	case StateSelectShopsForAgent:
		return r.handleSelectShops(conv, event)
	case StateAgentLogin:
		return r.handleAgentLogin(conv, event)
	case StateAgentMenu:
		return r.handleAgentMenu(conv, event)
	}
	return StateMainMenu, menu.Main()
}

// rerender rebuilds the canonical view of a state. Used when an event does
// not match any handler in the state: the conversation stays put and the
// user sees the same menu again.
func (r *Router) rerender(current State, conv *Conversation) (State, menu.View) {
	switch current {
	case StateAdminMenu:
		return current, menu.AdminMenu()
	case StateAddShop:
		return current, menu.AddShopPrompt()
	case StateShowShopsAdmin:
		return r.shopList(conv, "", "")
	case StateEditShop:
		shop, ok := r.selectedShop(conv)
		if !ok {
			return r.shopList(conv, "", "")
		}
		return current, menu.EditShopPrompt(shop)
	case StateDeleteShopConfirm:
		shop, ok := r.selectedShop(conv)
		if !ok {
			return r.shopList(conv, "", "")
		}
		return current, menu.DeleteShopConfirm(shop)
	case StateManageAgents:
		return current, menu.ManageAgents()
	case StateAddAgent:
		return current, menu.AddAgentPrompt()
	case StateEditAgentDetails:
		agent, ok := r.selectedAgent(conv)
		if !ok {
			return StateManageAgents, menu.ManageAgents()
		}
		return current, menu.EditAgentPrompt(agent)
	case StateDeleteAgentConfirm:
		agent, ok := r.selectedAgent(conv)
		if !ok {
			return StateManageAgents, menu.ManageAgents()
		}
		return current, menu.DeleteAgentConfirm(agent)
	case StateSelectShopsForAgent:
		return r.assignView(conv, "")
	case StateAgentLogin:
		return current, menu.LoginPrompt()
	case StateAgentMenu:
		return current, menu.AgentMenu(conv.Session.AgentName)
	}
	return StateMainMenu, menu.Main()
}

// selectedShop resolves the session's shop selection against the store.
// ok is false when the selection is stale (deleted by a race) or missing.
func (r *Router) selectedShop(conv *Conversation) (*store.Shop, bool) {
	id := conv.Session.SelectedShopID
	if id == 0 {
		return nil, false
	}
	shop, ok, err := r.store.ShopByID(id)
	if err != nil {
		slog.Error("shop lookup failed", "shop_id", id, "error", err)
		return nil, false
	}
	return shop, ok
}

func (r *Router) selectedAgent(conv *Conversation) (*store.Agent, bool) {
	id := conv.Session.SelectedAgentID
	if id == 0 {
		return nil, false
	}
	agent, ok, err := r.store.AgentByID(id)
	if err != nil {
		slog.Error("agent lookup failed", "agent_id", id, "error", err)
		return nil, false
	}
	return agent, ok
}

// parseTwoLines validates the two-line input contract of the add/edit forms.
func parseTwoLines(text string) (first, second string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(text), "\n", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	first = strings.TrimSpace(parts[0])
	second = strings.TrimSpace(parts[1])
	if first == "" || second == "" || strings.Contains(second, "\n") {
		return "", "", false
	}
	return first, second, true
}

// Run drains the bus until ctx is cancelled. A single consumer goroutine
// means one event is fully processed before the next is accepted, so events
// within a conversation never interleave.
func (r *Router) Run(ctx context.Context, b *bus.Bus) error {
	slog.Info("conversation router started")
	for {
		ev, err := b.ConsumeInbound(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("failed to consume event", "error", err)
			continue
		}
		b.PublishRender(r.Dispatch(ev))
	}
}
