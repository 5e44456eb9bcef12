package flow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/DukkanBot/DukkanBot/internal/menu"
	"github.com/DukkanBot/DukkanBot/internal/session"
	"github.com/DukkanBot/DukkanBot/internal/store"
)

// agentPickList renders the agent selection list for the given purpose.
func (r *Router) agentPickList(conv *Conversation, purpose, notice string) (State, menu.View) {
	agents, err := r.store.ListAgents()
	if err != nil {
		slog.Error("agent list failed", "error", err)
		return StateManageAgents, menu.WithNotice(msgGenericFailure, menu.ManageAgents())
	}
	return StateManageAgents, menu.WithNotice(notice, menu.AgentPickList(agents, purpose))
}

func (r *Router) handleManageAgents(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case GoAddAgent:
		return StateAddAgent, menu.AddAgentPrompt()
	case GoListAgents:
		conv.Session.Pending = session.ActionNone
		return r.agentPickList(conv, "", "")
	case PickEditAgent:
		conv.Session.Pending = session.ActionEdit
		return r.agentPickList(conv, "edit", "")
	case PickDeleteAgent:
		conv.Session.Pending = session.ActionDelete
		return r.agentPickList(conv, "delete", "")
	case SelectAgent:
		agent, ok, err := r.store.AgentByID(ev.AgentID)
		if err != nil {
			slog.Error("agent lookup failed", "agent_id", ev.AgentID, "error", err)
			return StateManageAgents, menu.WithNotice(msgGenericFailure, menu.ManageAgents())
		}
		if !ok {
			return r.agentPickList(conv, string(conv.Session.Pending), "❌ That agent no longer exists.")
		}
		conv.Session.SelectedAgentID = agent.ID
		if conv.Session.Pending == session.ActionDelete {
			return StateDeleteAgentConfirm, menu.DeleteAgentConfirm(agent)
		}
		return StateManageAgents, menu.AgentActions(agent)
	case EditAgentDetails:
		agent, ok, err := r.store.AgentByID(ev.AgentID)
		if err != nil {
			slog.Error("agent lookup failed", "agent_id", ev.AgentID, "error", err)
			return StateManageAgents, menu.WithNotice(msgGenericFailure, menu.ManageAgents())
		}
		if !ok {
			return r.agentPickList(conv, "edit", "❌ That agent no longer exists.")
		}
		conv.Session.SelectedAgentID = agent.ID
		return StateEditAgentDetails, menu.EditAgentPrompt(agent)
	case AssignShopsTo:
		return r.enterAssignView(conv, ev.AgentID)
	case GoManageAgents:
		return StateManageAgents, menu.ManageAgents()
	case GoAdminMenu:
		return StateAdminMenu, menu.AdminMenu()
	}
	return r.rerender(StateManageAgents, conv)
}

func (r *Router) handleAddAgent(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case Text:
		name, code, ok := parseTwoLines(ev.Content)
		if !ok {
			return StateAddAgent, menu.WithNotice(
				fmt.Sprintf(msgTwoLines, "Name\nSecret code"), menu.AddAgentPrompt())
		}
		agent, err := r.store.AddAgent(name, code)
		switch {
		case errors.Is(err, store.ErrCodeTaken):
			return StateManageAgents, menu.WithNotice(
				"❌ Could not add the agent: that secret code is already used by another agent.", menu.ManageAgents())
		case err != nil:
			slog.Error("add agent failed", "error", err)
			return StateAddAgent, menu.WithNotice(msgGenericFailure, menu.AddAgentPrompt())
		}
		return StateManageAgents, menu.WithNotice(
			fmt.Sprintf("✅ Agent added: %s", agent.Name), menu.ManageAgents())
	case GoManageAgents:
		return StateManageAgents, menu.ManageAgents()
	}
	return r.rerender(StateAddAgent, conv)
}

func (r *Router) handleEditAgentDetails(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case Text:
		agentID := conv.Session.SelectedAgentID
		if agentID == 0 {
			return StateManageAgents, menu.WithNotice("❌ No agent selected for editing.", menu.ManageAgents())
		}
		name, code, ok := parseTwoLines(ev.Content)
		if !ok {
			return r.rerenderWithNotice(StateEditAgentDetails, conv,
				fmt.Sprintf(msgTwoLines, "New name\nNew secret code"))
		}
		err := r.store.UpdateAgent(agentID, name, code)
		switch {
		case errors.Is(err, store.ErrCodeTaken):
			// Distinguishable from a generic save failure.
			return r.rerenderWithNotice(StateEditAgentDetails, conv,
				"❌ Could not save: the new secret code is already used by another agent.")
		case errors.Is(err, store.ErrNotFound):
			conv.Session.SelectedAgentID = 0
			return r.agentPickList(conv, "edit", "❌ That agent no longer exists.")
		case err != nil:
			slog.Error("update agent failed", "agent_id", agentID, "error", err)
			return r.rerenderWithNotice(StateEditAgentDetails, conv, msgGenericFailure)
		}
		conv.Session.SelectedAgentID = 0
		conv.Session.Pending = session.ActionEdit
		return r.agentPickList(conv, "edit", "✅ Agent updated.")
	case SelectAgent:
		// Cancel button: back to the agent's action menu.
		return r.handleManageAgents(conv, ev)
	case GoManageAgents:
		return StateManageAgents, menu.ManageAgents()
	}
	return r.rerender(StateEditAgentDetails, conv)
}

func (r *Router) handleDeleteAgentConfirm(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case ConfirmDeleteAgent:
		agent, ok, err := r.store.AgentByID(ev.AgentID)
		if err != nil {
			slog.Error("agent lookup failed", "agent_id", ev.AgentID, "error", err)
			return r.rerenderWithNotice(StateDeleteAgentConfirm, conv, msgGenericFailure)
		}
		if !ok {
			conv.Session.SelectedAgentID = 0
			return r.agentPickList(conv, "delete", "❌ That agent no longer exists.")
		}
		if err := r.store.DeleteAgent(agent.ID); err != nil {
			slog.Error("delete agent failed", "agent_id", agent.ID, "error", err)
			return r.rerenderWithNotice(StateDeleteAgentConfirm, conv, msgGenericFailure)
		}
		conv.Session.SelectedAgentID = 0
		return r.agentPickList(conv, "delete", fmt.Sprintf("✅ Agent %s deleted.", agent.Name))
	case PickDeleteAgent:
		conv.Session.SelectedAgentID = 0
		return r.agentPickList(conv, "delete", "")
	case GoManageAgents:
		conv.Session.SelectedAgentID = 0
		return StateManageAgents, menu.ManageAgents()
	}
	return r.rerender(StateDeleteAgentConfirm, conv)
}

// enterAssignView seeds the staged set from the store's current membership
// and opens the shop-selection view.
func (r *Router) enterAssignView(conv *Conversation, agentID int64) (State, menu.View) {
	agent, ok, err := r.store.AgentByID(agentID)
	if err != nil {
		slog.Error("agent lookup failed", "agent_id", agentID, "error", err)
		return StateManageAgents, menu.WithNotice(msgGenericFailure, menu.ManageAgents())
	}
	if !ok {
		return r.agentPickList(conv, "edit", "❌ That agent no longer exists.")
	}
	assigned, err := r.store.AssignedShopIDs(agent.ID)
	if err != nil {
		slog.Error("assignments lookup failed", "agent_id", agent.ID, "error", err)
		return StateManageAgents, menu.WithNotice(msgGenericFailure, menu.ManageAgents())
	}
	conv.Session.SelectedAgentID = agent.ID
	conv.Session.Pending = session.ActionAssign
	conv.Session.SeedStaged(assigned)
	return r.assignView(conv, "")
}

// assignView renders the staged selection view from the session's staged set.
func (r *Router) assignView(conv *Conversation, notice string) (State, menu.View) {
	agent, ok := r.selectedAgent(conv)
	if !ok {
		return StateManageAgents, menu.WithNotice("❌ That agent no longer exists.", menu.ManageAgents())
	}
	shops, err := r.store.ListShops("")
	if err != nil {
		slog.Error("shop list failed", "error", err)
		return StateManageAgents, menu.WithNotice(msgGenericFailure, menu.ManageAgents())
	}
	return StateSelectShopsForAgent, menu.WithNotice(notice,
		menu.AssignShops(agent.Name, shops, conv.Session.Staged))
}

func (r *Router) handleSelectShops(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case ToggleShop:
		// Staged mode: the click flips only the local candidate set.
		conv.Session.ToggleStaged(ev.ShopID)
		return r.assignView(conv, "")
	case ConfirmAssignment:
		agent, ok := r.selectedAgent(conv)
		if !ok {
			return StateManageAgents, menu.WithNotice("❌ That agent no longer exists.", menu.ManageAgents())
		}
		stored, err := r.store.AssignedShopIDs(agent.ID)
		if err != nil {
			slog.Error("assignments lookup failed", "agent_id", agent.ID, "error", err)
			return r.rerenderWithNotice(StateSelectShopsForAgent, conv, msgGenericFailure)
		}
		toAdd, toRemove := DiffAssignments(stored, conv.Session.Staged)
		for _, shopID := range toAdd {
			if err := r.store.SetAssignment(agent.ID, shopID, true); err != nil {
				slog.Error("assignment insert failed", "agent_id", agent.ID, "shop_id", shopID, "error", err)
				return r.rerenderWithNotice(StateSelectShopsForAgent, conv, msgGenericFailure)
			}
		}
		for _, shopID := range toRemove {
			if err := r.store.SetAssignment(agent.ID, shopID, false); err != nil {
				slog.Error("assignment delete failed", "agent_id", agent.ID, "shop_id", shopID, "error", err)
				return r.rerenderWithNotice(StateSelectShopsForAgent, conv, msgGenericFailure)
			}
		}
		linked := len(conv.Session.Staged)
		conv.Session.Pending = session.ActionNone
		conv.Session.SelectedAgentID = 0
		conv.Session.Staged = map[int64]bool{}
		return StateManageAgents, menu.WithNotice(
			fmt.Sprintf("✅ Assignments saved for %s (%d linked).", agent.Name, linked), menu.ManageAgents())
	case AssignShopsTo:
		return r.enterAssignView(conv, ev.AgentID)
	case GoManageAgents:
		// Cancel discards the staged set.
		conv.Session.Pending = session.ActionNone
		conv.Session.Staged = map[int64]bool{}
		return StateManageAgents, menu.ManageAgents()
	}
	return r.rerender(StateSelectShopsForAgent, conv)
}
