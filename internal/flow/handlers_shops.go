package flow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/DukkanBot/DukkanBot/internal/menu"
	"github.com/DukkanBot/DukkanBot/internal/store"
)

func (r *Router) handleMainMenu(conv *Conversation, event Event) (State, menu.View) {
	switch event.(type) {
	case OpenAgentLogin:
		return StateAgentLogin, menu.LoginPrompt()
	}
	return StateMainMenu, menu.Main()
}

func (r *Router) handleAdminMenu(conv *Conversation, event Event) (State, menu.View) {
	switch event.(type) {
	case GoAddShop:
		return StateAddShop, menu.AddShopPrompt()
	case GoListShops:
		return r.shopList(conv, "", "")
	case GoManageAgents:
		return StateManageAgents, menu.ManageAgents()
	}
	return r.rerender(StateAdminMenu, conv)
}

// shopList renders the admin shop list, optionally filtered and with a
// leading status notice.
func (r *Router) shopList(conv *Conversation, term, notice string) (State, menu.View) {
	shops, err := r.store.ListShops(term)
	if err != nil {
		slog.Error("shop list failed", "error", err)
		return StateShowShopsAdmin, menu.WithNotice(msgGenericFailure, menu.ShopListAdmin(nil, term))
	}
	return StateShowShopsAdmin, menu.WithNotice(notice, menu.ShopListAdmin(shops, term))
}

func (r *Router) handleAddShop(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case Text:
		name, url, ok := parseTwoLines(ev.Content)
		if !ok {
			return StateAddShop, menu.WithNotice(
				fmt.Sprintf(msgTwoLines, "Name\nLink (URL)"), menu.AddShopPrompt())
		}
		shop, err := r.store.AddShop(name, url)
		switch {
		case errors.Is(err, store.ErrNameTaken):
			return StateAdminMenu, menu.WithNotice(
				fmt.Sprintf("❌ Could not add the shop: the name %q is already in use.", name), menu.AdminMenu())
		case err != nil:
			slog.Error("add shop failed", "error", err)
			return StateAddShop, menu.WithNotice(msgGenericFailure, menu.AddShopPrompt())
		}
		return StateAdminMenu, menu.WithNotice(
			fmt.Sprintf("✅ Shop added: %s", shop.Name), menu.AdminMenu())
	case GoAdminMenu:
		return StateAdminMenu, menu.AdminMenu()
	}
	return r.rerender(StateAddShop, conv)
}

func (r *Router) handleShowShopsAdmin(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case Text:
		return r.shopList(conv, ev.Content, "")
	case GoListShops:
		return r.shopList(conv, "", "")
	case GoAddShop:
		// Empty-state shortcut.
		return StateAddShop, menu.AddShopPrompt()
	case GoAdminMenu:
		return StateAdminMenu, menu.AdminMenu()
	case EditShopSelect:
		shop, ok, err := r.store.ShopByID(ev.ShopID)
		if err != nil {
			slog.Error("shop lookup failed", "shop_id", ev.ShopID, "error", err)
			return r.shopList(conv, "", msgGenericFailure)
		}
		if !ok {
			return r.shopList(conv, "", "❌ That shop no longer exists.")
		}
		conv.Session.SelectedShopID = shop.ID
		return StateEditShop, menu.EditShopPrompt(shop)
	case DeleteShopSelect:
		shop, ok, err := r.store.ShopByID(ev.ShopID)
		if err != nil {
			slog.Error("shop lookup failed", "shop_id", ev.ShopID, "error", err)
			return r.shopList(conv, "", msgGenericFailure)
		}
		if !ok {
			return r.shopList(conv, "", "❌ That shop no longer exists.")
		}
		conv.Session.SelectedShopID = shop.ID
		return StateDeleteShopConfirm, menu.DeleteShopConfirm(shop)
	case Noop:
		return r.rerender(StateShowShopsAdmin, conv)
	}
	return r.rerender(StateShowShopsAdmin, conv)
}

func (r *Router) handleDeleteShopConfirm(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case ConfirmDeleteShop:
		if err := r.store.DeleteShop(ev.ShopID); err != nil {
			slog.Error("delete shop failed", "shop_id", ev.ShopID, "error", err)
			return r.rerenderWithNotice(StateDeleteShopConfirm, conv, msgGenericFailure)
		}
		conv.Session.SelectedShopID = 0
		return r.shopList(conv, "", "✅ Shop deleted.")
	case GoListShops:
		conv.Session.SelectedShopID = 0
		return r.shopList(conv, "", "")
	}
	return r.rerender(StateDeleteShopConfirm, conv)
}

func (r *Router) handleEditShop(conv *Conversation, event Event) (State, menu.View) {
	switch ev := event.(type) {
	case Text:
		shopID := conv.Session.SelectedShopID
		if shopID == 0 {
			return r.shopList(conv, "", "❌ No shop selected for editing.")
		}
		name, url, ok := parseTwoLines(ev.Content)
		if !ok {
			return r.rerenderWithNotice(StateEditShop, conv,
				fmt.Sprintf(msgTwoLines, "New name\nNew link (URL)"))
		}
		err := r.store.UpdateShop(shopID, name, url)
		switch {
		case errors.Is(err, store.ErrNameTaken):
			return r.rerenderWithNotice(StateEditShop, conv,
				fmt.Sprintf("❌ Could not save: the name %q is already in use.", name))
		case errors.Is(err, store.ErrNotFound):
			conv.Session.SelectedShopID = 0
			return r.shopList(conv, "", "❌ That shop no longer exists.")
		case err != nil:
			slog.Error("update shop failed", "shop_id", shopID, "error", err)
			return r.rerenderWithNotice(StateEditShop, conv, msgGenericFailure)
		}
		conv.Session.SelectedShopID = 0
		return r.shopList(conv, "", "✅ Shop updated.")
	case GoListShops:
		conv.Session.SelectedShopID = 0
		return r.shopList(conv, "", "")
	}
	return r.rerender(StateEditShop, conv)
}

// rerenderWithNotice keeps the conversation in place and prepends a status
// line to the state's canonical view.
func (r *Router) rerenderWithNotice(current State, conv *Conversation, notice string) (State, menu.View) {
	next, v := r.rerender(current, conv)
	return next, menu.WithNotice(notice, v)
}
