// Package menu renders conversation views. Every function here is pure: it
// maps data to a View and performs no I/O and no mutation.
package menu

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/DukkanBot/DukkanBot/internal/bus"
	"github.com/DukkanBot/DukkanBot/internal/store"
)

// View is the render instruction handed to a gateway: body text plus ordered
// rows of buttons.
type View struct {
	Body string
	Rows [][]bus.Button
}

// Navigational tokens carried by buttons. The flow package parses these back
// into typed events; ID-bearing tokens use a ":<id>" suffix.
const (
	TokenStart       = "start"
	TokenAdmin       = "admin"
	TokenAgentLogin  = "agent_login"
	TokenAdminMenu   = "admin_menu"
	TokenAddShop     = "add_shop"
	TokenListShops   = "list_shops"
	TokenManage      = "manage_agents"
	TokenAddAgent    = "add_agent"
	TokenListAgents  = "list_agents"
	TokenPickEdit    = "pick_edit_agent"
	TokenPickDelete  = "pick_delete_agent"
	TokenConfirmSave = "confirm_assign"
	TokenAgentShops  = "agent_shops"
	TokenAgentMenu   = "agent_menu"
	TokenNoop        = "noop"

	prefixEditShop     = "edit_shop"
	prefixDeleteShop   = "delete_shop"
	prefixConfirmShop  = "confirm_delete_shop"
	prefixSelectAgent  = "select_agent"
	prefixEditAgent    = "edit_agent"
	prefixAssignShops  = "assign_shops"
	prefixConfirmAgent = "confirm_delete_agent"
	prefixToggleShop   = "toggle_shop"
)

// ID-bearing token constructors.
func TokenEditShop(id int64) string           { return idToken(prefixEditShop, id) }
func TokenDeleteShop(id int64) string         { return idToken(prefixDeleteShop, id) }
func TokenConfirmDeleteShop(id int64) string  { return idToken(prefixConfirmShop, id) }
func TokenSelectAgent(id int64) string        { return idToken(prefixSelectAgent, id) }
func TokenEditAgent(id int64) string          { return idToken(prefixEditAgent, id) }
func TokenAssignShops(id int64) string        { return idToken(prefixAssignShops, id) }
func TokenConfirmDeleteAgent(id int64) string { return idToken(prefixConfirmAgent, id) }
func TokenToggleShop(id int64) string         { return idToken(prefixToggleShop, id) }

func idToken(prefix string, id int64) string {
	return prefix + ":" + strconv.FormatInt(id, 10)
}

// SplitIDToken parses "<prefix>:<id>" tokens. ok is false for anything that
// does not match the shape.
func SplitIDToken(token string) (prefix string, id int64, ok bool) {
	i := strings.LastIndexByte(token, ':')
	if i < 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(token[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return token[:i], id, true
}

// NormalizeURL prepends https:// to shop links lacking a scheme. The stored
// value is never touched, only the rendered link.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

func action(label, token string) bus.Button { return bus.Button{Label: label, Token: token} }
func link(label, url string) bus.Button     { return bus.Button{Label: label, OpenURL: url} }

// ---------------------------------------------------------------------------
// Entry menus
// ---------------------------------------------------------------------------

// Main is what anonymous users see at the root.
func Main() View {
	return View{
		Body: "👋 Welcome! Choose:",
		Rows: [][]bus.Button{
			{action("🔑 Enter your secret code", TokenAgentLogin)},
		},
	}
}

// AdminMenu is the admin's home screen.
func AdminMenu() View {
	return View{
		Body: "👋 Welcome back, boss! What would you like to do?",
		Rows: [][]bus.Button{
			{action("📊 View shops", TokenListShops), action("🏬 Add shop", TokenAddShop)},
			{action("🧑‍💻 Manage agents", TokenManage)},
			{action("🚪 Log out", TokenStart)},
		},
	}
}

// AdminDenied is shown to non-admins using the admin command.
func AdminDenied() View {
	return View{Body: "❌ Sorry, you do not have admin access."}
}

// ---------------------------------------------------------------------------
// Prompts (free-text input states)
// ---------------------------------------------------------------------------

func LoginPrompt() View {
	return View{
		Body: "🔑 Send your secret code now:",
		Rows: [][]bus.Button{{action("🔙 Back", TokenStart)}},
	}
}

func AddShopPrompt() View {
	return View{
		Body: "📝 Send the shop name and its link on two separate lines:\nName\nLink (URL)",
		Rows: [][]bus.Button{{action("🔙 Back", TokenAdminMenu)}},
	}
}

func EditShopPrompt(shop *store.Shop) View {
	return View{
		Body: fmt.Sprintf("📝 Editing %s:\nSend the new name and new link on two separate lines:\nNew name\nNew link (URL)", shop.Name),
		Rows: [][]bus.Button{{action("🔙 Cancel", TokenListShops)}},
	}
}

func AddAgentPrompt() View {
	return View{
		Body: "📝 Send the agent name and secret code on two separate lines:\nName\nSecret code",
		Rows: [][]bus.Button{{action("🔙 Back", TokenManage)}},
	}
}

func EditAgentPrompt(agent *store.Agent) View {
	return View{
		Body: fmt.Sprintf("📝 Editing %s:\nSend the new name and new secret code on two separate lines:\nNew name\nNew secret code", agent.Name),
		Rows: [][]bus.Button{{action("🔙 Cancel", TokenSelectAgent(agent.ID))}},
	}
}

// ---------------------------------------------------------------------------
// Admin shop views
// ---------------------------------------------------------------------------

// ShopListAdmin renders the searchable shop list with per-shop edit/delete
// controls. term is the active search filter, empty for the full list.
func ShopListAdmin(shops []store.Shop, term string) View {
	var v View
	switch {
	case len(shops) == 0 && term != "":
		v.Body = fmt.Sprintf("❌ No shops matching %q.", term)
	case len(shops) == 0:
		v.Body = "❌ No shops added yet."
		v.Rows = append(v.Rows, []bus.Button{action("🏬 Add your first shop", TokenAddShop)})
	case term != "":
		v.Body = fmt.Sprintf("✅ Search results for %q:", term)
	default:
		v.Body = "📊 All shops:\nType a shop name to search."
	}

	for _, shop := range shops {
		v.Rows = append(v.Rows,
			[]bus.Button{link("🔗 "+shop.Name, NormalizeURL(shop.URL))},
			[]bus.Button{
				action("✏️ Edit", TokenEditShop(shop.ID)),
				action("🗑️ Delete", TokenDeleteShop(shop.ID)),
			},
			[]bus.Button{action("———", TokenNoop)},
		)
	}
	v.Rows = append(v.Rows, []bus.Button{action("🔙 Back to main menu", TokenAdminMenu)})
	return v
}

func DeleteShopConfirm(shop *store.Shop) View {
	return View{
		Body: fmt.Sprintf("Are you sure you want to delete %s? Its agent links will be removed too.", shop.Name),
		Rows: [][]bus.Button{
			{action("✅ Confirm delete", TokenConfirmDeleteShop(shop.ID))},
			{action("❌ Cancel", TokenListShops)},
		},
	}
}

// ---------------------------------------------------------------------------
// Agent management views
// ---------------------------------------------------------------------------

func ManageAgents() View {
	return View{
		Body: "🧑‍💻 Agent management. Choose an action:",
		Rows: [][]bus.Button{
			{action("➕ Add agent", TokenAddAgent)},
			{action("📄 View agents", TokenListAgents)},
			{action("✏️ Edit agent", TokenPickEdit)},
			{action("🗑️ Delete agent", TokenPickDelete)},
			{action("🔙 Back to main menu", TokenAdminMenu)},
		},
	}
}

// AgentPickList renders the agent selection list. purpose tailors the body
// ("edit", "delete" or "" for a plain listing).
func AgentPickList(agents []store.Agent, purpose string) View {
	var v View
	if len(agents) == 0 {
		v.Body = "❌ No agents added yet."
		v.Rows = append(v.Rows, []bus.Button{action("➕ Add your first agent", TokenAddAgent)})
		v.Rows = append(v.Rows, []bus.Button{action("🔙 Back", TokenManage)})
		return v
	}

	switch purpose {
	case "delete":
		v.Body = "Pick the agent to delete:"
	case "edit":
		v.Body = "Pick the agent to edit:"
	default:
		v.Body = "📄 Agents:"
	}
	for _, agent := range agents {
		v.Rows = append(v.Rows, []bus.Button{action("👤 "+agent.Name, TokenSelectAgent(agent.ID))})
	}
	v.Rows = append(v.Rows, []bus.Button{action("🔙 Back", TokenManage)})
	return v
}

// AgentActions is the per-agent action menu reached from the pick list.
func AgentActions(agent *store.Agent) View {
	return View{
		Body: fmt.Sprintf("Choose an action for %s:", agent.Name),
		Rows: [][]bus.Button{
			{action("✏️ Edit login details", TokenEditAgent(agent.ID))},
			{action("🔗 Assign shops", TokenAssignShops(agent.ID))},
			{action("🔙 Back", TokenPickEdit)},
		},
	}
}

func DeleteAgentConfirm(agent *store.Agent) View {
	return View{
		Body: fmt.Sprintf("Are you sure you want to delete agent %s?", agent.Name),
		Rows: [][]bus.Button{
			{action("✅ Confirm delete", TokenConfirmDeleteAgent(agent.ID))},
			{action("❌ Cancel", TokenPickDelete)},
		},
	}
}

// AssignShops renders the staged shop-selection view for an agent. selected
// is the staged membership. Currently-selected shops sort first so the
// relevant rows surface without scrolling; ties keep name order.
func AssignShops(agentName string, shops []store.Shop, selected map[int64]bool) View {
	if len(shops) == 0 {
		return View{
			Body: "❌ No shops to assign yet.",
			Rows: [][]bus.Button{{action("🔙 Back", TokenManage)}},
		}
	}

	ordered := make([]store.Shop, len(shops))
	copy(ordered, shops)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := selected[ordered[i].ID], selected[ordered[j].ID]
		if si != sj {
			return si
		}
		return ordered[i].Name < ordered[j].Name
	})

	v := View{
		Body: fmt.Sprintf("🔗 Assign shops to %s:\nTap a shop to select (✅) or unselect (❌), then save.", agentName),
	}
	for _, shop := range ordered {
		mark := "❌"
		if selected[shop.ID] {
			mark = "✅"
		}
		v.Rows = append(v.Rows, []bus.Button{action(mark+" "+shop.Name, TokenToggleShop(shop.ID))})
	}
	v.Rows = append(v.Rows, []bus.Button{
		action("💾 Confirm and save", TokenConfirmSave),
		action("🔙 Cancel", TokenManage),
	})
	return v
}

// ---------------------------------------------------------------------------
// Agent-side views
// ---------------------------------------------------------------------------

func AgentMenu(name string) View {
	return View{
		Body: fmt.Sprintf("👋 Welcome, %s!", name),
		Rows: [][]bus.Button{
			{action("📊 View my shops", TokenAgentShops)},
			{action("🚪 Log out", TokenStart)},
		},
	}
}

// AgentShops renders an agent's assigned shop links, optionally narrowed by
// a search term.
func AgentShops(shops []store.Shop, term string) View {
	var v View
	switch {
	case len(shops) == 0 && term != "":
		v.Body = fmt.Sprintf("❌ No shops matching %q.", term)
	case len(shops) == 0:
		v.Body = "❌ No shops have been assigned to you yet."
	case term != "":
		v.Body = fmt.Sprintf("✅ Search results for %q:", term)
	default:
		v.Body = "📊 Your shops:\nType a shop name to search."
	}

	for _, shop := range shops {
		v.Rows = append(v.Rows,
			[]bus.Button{link("🔗 "+shop.Name, NormalizeURL(shop.URL))},
			[]bus.Button{action("———", TokenNoop)},
		)
	}
	v.Rows = append(v.Rows, []bus.Button{action("🔙 Back to menu", TokenAgentMenu)})
	return v
}

// WithNotice prepends a one-line status message to a view's body.
func WithNotice(notice string, v View) View {
	if notice == "" {
		return v
	}
	v.Body = notice + "\n\n" + v.Body
	return v
}
