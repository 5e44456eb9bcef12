package menu

import (
	"strings"
	"testing"

	"github.com/DukkanBot/DukkanBot/internal/store"
)

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"pizzahut.example":           "https://pizzahut.example",
		"http://pizzahut.example":    "http://pizzahut.example",
		"https://pizzahut.example":   "https://pizzahut.example",
		"HTTPS://pizzahut.example":   "HTTPS://pizzahut.example",
		"www.shop.example/menu?x=1":  "https://www.shop.example/menu?x=1",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitIDToken(t *testing.T) {
	prefix, id, ok := SplitIDToken(TokenToggleShop(42))
	if !ok || prefix != "toggle_shop" || id != 42 {
		t.Fatalf("unexpected parse: %q %d %v", prefix, id, ok)
	}
	if _, _, ok := SplitIDToken("add_shop"); ok {
		t.Fatalf("plain token must not parse as id token")
	}
	if _, _, ok := SplitIDToken("edit_shop:NaN"); ok {
		t.Fatalf("non-numeric id must not parse")
	}
}

func TestShopListAdminEmptyStates(t *testing.T) {
	v := ShopListAdmin(nil, "")
	if !strings.Contains(v.Body, "No shops added yet") {
		t.Fatalf("unexpected empty body: %q", v.Body)
	}
	if v.Rows[0][0].Token != TokenAddShop {
		t.Fatalf("expected add-first-shop shortcut, got %+v", v.Rows[0])
	}

	v = ShopListAdmin(nil, "zzz")
	if !strings.Contains(v.Body, "No shops matching") {
		t.Fatalf("expected no-match body, got %q", v.Body)
	}
	for _, row := range v.Rows {
		for _, b := range row {
			if b.Token == TokenAddShop {
				t.Fatalf("no-match view must not offer add shortcut")
			}
		}
	}
}

func TestShopListAdminRows(t *testing.T) {
	shops := []store.Shop{{ID: 1, Name: "Pizza Hut", URL: "pizzahut.example"}}
	v := ShopListAdmin(shops, "")

	if got := v.Rows[0][0].OpenURL; got != "https://pizzahut.example" {
		t.Fatalf("expected normalized link, got %q", got)
	}
	if v.Rows[0][0].Token != "" {
		t.Fatalf("link button must not carry a token")
	}
	if v.Rows[1][0].Token != TokenEditShop(1) || v.Rows[1][1].Token != TokenDeleteShop(1) {
		t.Fatalf("unexpected control row: %+v", v.Rows[1])
	}
	last := v.Rows[len(v.Rows)-1]
	if last[0].Token != TokenAdminMenu {
		t.Fatalf("expected back row last, got %+v", last)
	}
}

func TestAssignShopsOrdering(t *testing.T) {
	shops := []store.Shop{
		{ID: 1, Name: "Alpha"},
		{ID: 2, Name: "Beta"},
		{ID: 3, Name: "Gamma"},
	}
	v := AssignShops("Ali", shops, map[int64]bool{3: true})

	// Selected shop surfaces first, the rest keep name order.
	if !strings.HasPrefix(v.Rows[0][0].Label, "✅ Gamma") {
		t.Fatalf("expected Gamma first, got %q", v.Rows[0][0].Label)
	}
	if !strings.HasPrefix(v.Rows[1][0].Label, "❌ Alpha") || !strings.HasPrefix(v.Rows[2][0].Label, "❌ Beta") {
		t.Fatalf("unexpected tail order: %q, %q", v.Rows[1][0].Label, v.Rows[2][0].Label)
	}

	save := v.Rows[len(v.Rows)-1]
	if save[0].Token != TokenConfirmSave {
		t.Fatalf("expected confirm row, got %+v", save)
	}
}

func TestAssignShopsEmpty(t *testing.T) {
	v := AssignShops("Ali", nil, nil)
	if !strings.Contains(v.Body, "No shops to assign") {
		t.Fatalf("unexpected body: %q", v.Body)
	}
}

func TestAgentShopsViews(t *testing.T) {
	v := AgentShops(nil, "")
	if !strings.Contains(v.Body, "No shops have been assigned") {
		t.Fatalf("unexpected empty body: %q", v.Body)
	}

	v = AgentShops([]store.Shop{{ID: 1, Name: "Pizza Hut", URL: "pizzahut.example"}}, "Pizza")
	if !strings.Contains(v.Body, "Search results") {
		t.Fatalf("expected search body, got %q", v.Body)
	}
	if v.Rows[0][0].OpenURL != "https://pizzahut.example" {
		t.Fatalf("expected normalized link, got %+v", v.Rows[0][0])
	}
}

func TestWithNotice(t *testing.T) {
	v := WithNotice("✅ Shop added: Pizza Hut", AdminMenu())
	if !strings.HasPrefix(v.Body, "✅ Shop added: Pizza Hut\n\n") {
		t.Fatalf("unexpected body: %q", v.Body)
	}
	if got := WithNotice("", AdminMenu()); got.Body != AdminMenu().Body {
		t.Fatalf("empty notice must not change body")
	}
}
