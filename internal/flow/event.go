package flow

import (
	"strings"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/menu"
)

// Event is a typed conversation event. Wire tokens are parsed into these at
// the boundary so the router matches on types, not string patterns.
type Event interface{ isEvent() }

type (
	// Reset is the root /start event: clears the session and lands on the
	// identity-gated entry menu.
	Reset struct{}
	// AdminCommand is the explicit /admin entry.
	AdminCommand struct{}

	OpenAgentLogin struct{}
	GoAdminMenu    struct{}
	GoAddShop      struct{}
	GoListShops    struct{}
	GoManageAgents struct{}
	GoAddAgent     struct{}
	GoListAgents   struct{}
	PickEditAgent  struct{}
	PickDeleteAgent struct{}

	SelectAgent        struct{ AgentID int64 }
	EditAgentDetails   struct{ AgentID int64 }
	AssignShopsTo      struct{ AgentID int64 }
	ConfirmDeleteAgent struct{ AgentID int64 }

	EditShopSelect    struct{ ShopID int64 }
	DeleteShopSelect  struct{ ShopID int64 }
	ConfirmDeleteShop struct{ ShopID int64 }

	ToggleShop        struct{ ShopID int64 }
	ConfirmAssignment struct{}

	GoAgentShops struct{}
	GoAgentMenu  struct{}

	Noop struct{}
	// Unknown is any token the parser does not recognize; the router treats
	// it as a no-op re-render of the current state.
	Unknown struct{ Token string }

	// Text is free-form input, meaningful only in states that expect it.
	Text struct{ Content string }
)

func (Reset) isEvent()              {}
func (AdminCommand) isEvent()       {}
func (OpenAgentLogin) isEvent()     {}
func (GoAdminMenu) isEvent()        {}
func (GoAddShop) isEvent()          {}
func (GoListShops) isEvent()        {}
func (GoManageAgents) isEvent()     {}
func (GoAddAgent) isEvent()         {}
func (GoListAgents) isEvent()       {}
func (PickEditAgent) isEvent()      {}
func (PickDeleteAgent) isEvent()    {}
func (SelectAgent) isEvent()        {}
func (EditAgentDetails) isEvent()   {}
func (AssignShopsTo) isEvent()      {}
func (ConfirmDeleteAgent) isEvent() {}
func (EditShopSelect) isEvent()     {}
func (DeleteShopSelect) isEvent()   {}
func (ConfirmDeleteShop) isEvent()  {}
func (ToggleShop) isEvent()         {}
func (ConfirmAssignment) isEvent()  {}
func (GoAgentShops) isEvent()       {}
func (GoAgentMenu) isEvent()        {}
func (Noop) isEvent()               {}
func (Unknown) isEvent()            {}
func (Text) isEvent()               {}

// ParseInbound maps a gateway event to a typed Event.
func ParseInbound(ev *bus.Inbound) Event {
	if ev.Kind == bus.KindText {
		return Text{Content: strings.TrimSpace(ev.Content)}
	}
	return parseToken(ev.Token)
}

func parseToken(token string) Event {
	switch token {
	case menu.TokenStart:
		return Reset{}
	case menu.TokenAdmin:
		return AdminCommand{}
	case menu.TokenAgentLogin:
		return OpenAgentLogin{}
	case menu.TokenAdminMenu:
		return GoAdminMenu{}
	case menu.TokenAddShop:
		return GoAddShop{}
	case menu.TokenListShops:
		return GoListShops{}
	case menu.TokenManage:
		return GoManageAgents{}
	case menu.TokenAddAgent:
		return GoAddAgent{}
	case menu.TokenListAgents:
		return GoListAgents{}
	case menu.TokenPickEdit:
		return PickEditAgent{}
	case menu.TokenPickDelete:
		return PickDeleteAgent{}
	case menu.TokenConfirmSave:
		return ConfirmAssignment{}
	case menu.TokenAgentShops:
		return GoAgentShops{}
	case menu.TokenAgentMenu:
		return GoAgentMenu{}
	case menu.TokenNoop:
		return Noop{}
	}

	prefix, id, ok := menu.SplitIDToken(token)
	if !ok {
		return Unknown{Token: token}
	}
	switch prefix {
	case "edit_shop":
		return EditShopSelect{ShopID: id}
	case "delete_shop":
		return DeleteShopSelect{ShopID: id}
	case "confirm_delete_shop":
		return ConfirmDeleteShop{ShopID: id}
	case "select_agent":
		return SelectAgent{AgentID: id}
	case "edit_agent":
		return EditAgentDetails{AgentID: id}
	case "assign_shops":
		return AssignShopsTo{AgentID: id}
	case "confirm_delete_agent":
		return ConfirmDeleteAgent{AgentID: id}
	case "toggle_shop":
		return ToggleShop{ShopID: id}
	}
	return Unknown{Token: token}
}
