package flow

// State is a position in the conversation. There is no terminal state: flows
// loop back to their parent menu on completion, and a root reset always
// returns to the entry menu.
type State int

const (
	StateMainMenu State = iota
	StateAdminMenu
	StateAddShop
	StateShowShopsAdmin
	StateEditShop
	StateDeleteShopConfirm
	StateManageAgents
	StateAddAgent
	StateEditAgentDetails
	StateDeleteAgentConfirm
	StateSelectShopsForAgent
	StateAgentLogin
	StateAgentMenu
)

var stateNames = map[State]string{
	StateMainMenu:            "main_menu",
	StateAdminMenu:           "admin_menu",
	StateAddShop:             "add_shop",
	StateShowShopsAdmin:      "show_shops_admin",
	StateEditShop:            "edit_shop",
	StateDeleteShopConfirm:   "delete_shop_confirm",
	StateManageAgents:        "manage_agents",
	StateAddAgent:            "add_agent",
	StateEditAgentDetails:    "edit_agent_details",
	StateDeleteAgentConfirm:  "delete_agent_confirm",
	StateSelectShopsForAgent: "select_shops_for_agent",
	StateAgentLogin:          "agent_login",
	StateAgentMenu:           "agent_menu",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
