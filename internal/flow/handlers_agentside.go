package flow

import (
	"log/slog"

	"github.com/DukkanBot/DukkanBot/internal/menu"
)

func (r *Router) handleAgentLogin(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case Text:
		agent, ok, err := r.store.AgentByCode(ev.Content)
		if err != nil {
			slog.Error("login lookup failed", "error", err)
			return StateAgentLogin, menu.WithNotice(msgGenericFailure, menu.LoginPrompt())
		}
		if !ok {
			return StateAgentLogin, menu.WithNotice("❌ Wrong code. Try again.", menu.LoginPrompt())
		}
		conv.Session.AgentID = agent.ID
		conv.Session.AgentName = agent.Name
		// First successful login binds the platform identity, once.
		if agent.ChatID == "" {
			if err := r.store.BindAgentChat(agent.ID, conv.Channel+":"+conv.SenderID); err != nil {
				slog.Warn("chat bind failed", "agent_id", agent.ID, "error", err)
			}
		}
		slog.Info("agent logged in", "agent_id", agent.ID, "conversation", conv.Key)
		return StateAgentMenu, menu.AgentMenu(agent.Name)
	}
	return r.rerender(StateAgentLogin, conv)
}

func (r *Router) handleAgentMenu(conv *Conversation, event Event) (State, menu.View) {
	if conv.Session.AgentID == 0 {
		// Lost identity (restart); back to the entry menu.
		return StateMainMenu, menu.Main()
	}
	switch ev := event.(type) {
	case GoAgentShops:
		return r.agentShops(conv, "")
	case Text:
		return r.agentShops(conv, ev.Content)
	case GoAgentMenu:
		return StateAgentMenu, menu.AgentMenu(conv.Session.AgentName)
	case Noop:
		return r.rerender(StateAgentMenu, conv)
	}
	return r.rerender(StateAgentMenu, conv)
}

func (r *Router) agentShops(conv *Conversation, term string) (State, menu.View) {
	shops, err := r.store.AgentShopsBySearch(conv.Session.AgentID, term)
	if err != nil {
		slog.Error("agent shops failed", "agent_id", conv.Session.AgentID, "error", err)
		return StateAgentMenu, menu.WithNotice(msgGenericFailure, menu.AgentMenu(conv.Session.AgentName))
	}
	return StateAgentMenu, menu.AgentShops(shops, term)
}
