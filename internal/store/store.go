// Package store is the repository for shops, agents and their assignments.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Discriminated repository outcomes. Handlers check these with errors.Is so
// the user sees a specific message instead of a generic failure.
var (
	ErrNameTaken = errors.New("shop name already in use")
	ErrCodeTaken = errors.New("secret code already in use")
	ErrNotFound  = errors.New("record not found")
)

type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the SQLite database at path and applies
// the schema. Foreign keys are enabled so entity deletes cascade into
// assignments at the storage layer.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open store db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// uniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column ("table.column"). The driver exposes constraint errors only
// through the message text.
func uniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") && strings.Contains(msg, strings.ToLower(column))
}

// ---------------------------------------------------------------------------
// Shops
// ---------------------------------------------------------------------------

// AddShop inserts a new shop. Returns ErrNameTaken when the name is already
// claimed; the single INSERT lets the unique index arbitrate concurrent
// attempts.
func (s *Store) AddShop(name, url string) (*Shop, error) {
	res, err := s.db.Exec(`INSERT INTO shops (name, url) VALUES (?, ?)`, name, url)
	if uniqueViolation(err, "shops.name") {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("add shop: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add shop id: %w", err)
	}
	return &Shop{ID: id, Name: name, URL: url}, nil
}

// UpdateShop replaces a shop's name and url. Updating a shop with its own
// unchanged name is not a conflict; only another shop holding the name is.
func (s *Store) UpdateShop(id int64, name, url string) error {
	res, err := s.db.Exec(`UPDATE shops SET name = ?, url = ? WHERE id = ?`, name, url, id)
	if uniqueViolation(err, "shops.name") {
		return ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update shop rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteShop removes a shop; its assignment rows go with it via cascade.
func (s *Store) DeleteShop(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shops WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	return nil
}

// ListShops returns shops ordered by name. A non-empty term narrows the
// result to names containing it, case-insensitively.
func (s *Store) ListShops(term string) ([]Shop, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if term == "" {
		rows, err = s.db.Query(`SELECT id, name, url FROM shops ORDER BY name ASC`)
	} else {
		rows, err = s.db.Query(
			`SELECT id, name, url FROM shops WHERE name LIKE '%' || ? || '%' COLLATE NOCASE ORDER BY name ASC`, term)
	}
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()
	return scanShops(rows)
}

// ShopByID looks up a single shop. ok is false when no shop has the id.
func (s *Store) ShopByID(id int64) (*Shop, bool, error) {
	var shop Shop
	err := s.db.QueryRow(`SELECT id, name, url FROM shops WHERE id = ?`, id).Scan(&shop.ID, &shop.Name, &shop.URL)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("shop by id: %w", err)
	}
	return &shop, true, nil
}

// ---------------------------------------------------------------------------
// Agents
// ---------------------------------------------------------------------------

// AddAgent inserts a new agent. Returns ErrCodeTaken when the secret code is
// already claimed by another agent.
func (s *Store) AddAgent(name, code string) (*Agent, error) {
	res, err := s.db.Exec(`INSERT INTO agents (name, secret_code) VALUES (?, ?)`, name, code)
	if uniqueViolation(err, "agents.secret_code") {
		return nil, ErrCodeTaken
	}
	if err != nil {
		return nil, fmt.Errorf("add agent: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add agent id: %w", err)
	}
	return &Agent{ID: id, Name: name, SecretCode: code}, nil
}

// UpdateAgent replaces an agent's name and secret code. An agent keeping its
// own code does not conflict; ErrCodeTaken means another agent holds it.
func (s *Store) UpdateAgent(id int64, name, code string) error {
	res, err := s.db.Exec(`UPDATE agents SET name = ?, secret_code = ? WHERE id = ?`, name, code, id)
	if uniqueViolation(err, "agents.secret_code") {
		return ErrCodeTaken
	}
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update agent rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAgent removes an agent; its assignment rows cascade away.
func (s *Store) DeleteAgent(id int64) error {
	_, err := s.db.Exec(`DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}

// ListAgents returns all agents ordered by name.
func (s *Store) ListAgents() ([]Agent, error) {
	rows, err := s.db.Query(`SELECT id, COALESCE(chat_id, ''), name, secret_code FROM agents ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.ChatID, &a.Name, &a.SecretCode); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// AgentByID looks up a single agent. ok is false when no agent has the id.
func (s *Store) AgentByID(id int64) (*Agent, bool, error) {
	return s.agentBy(`SELECT id, COALESCE(chat_id, ''), name, secret_code FROM agents WHERE id = ?`, id)
}

// AgentByCode resolves a login code to an agent. ok is false when the code
// matches nobody; that is not an error.
func (s *Store) AgentByCode(code string) (*Agent, bool, error) {
	return s.agentBy(`SELECT id, COALESCE(chat_id, ''), name, secret_code FROM agents WHERE secret_code = ?`, code)
}

func (s *Store) agentBy(query string, arg any) (*Agent, bool, error) {
	var a Agent
	err := s.db.QueryRow(query, arg).Scan(&a.ID, &a.ChatID, &a.Name, &a.SecretCode)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("agent lookup: %w", err)
	}
	return &a, true, nil
}

// BindAgentChat records the platform identity of an agent after their first
// successful login. Set once: an already-bound agent is left untouched.
func (s *Store) BindAgentChat(id int64, chatID string) error {
	_, err := s.db.Exec(`UPDATE agents SET chat_id = ? WHERE id = ? AND chat_id IS NULL`, chatID, id)
	if uniqueViolation(err, "agents.chat_id") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bind agent chat: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Assignments
// ---------------------------------------------------------------------------

// AssignedShopIDs returns the ids of every shop the agent is linked to.
func (s *Store) AssignedShopIDs(agentID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT shop_id FROM assignments WHERE agent_id = ?`, agentID)
	if err != nil {
		return nil, fmt.Errorf("assigned shops: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetAssignment makes the agent↔shop link present or absent. Idempotent in
// both directions: inserting an existing pair and deleting a missing pair
// are successful no-ops.
func (s *Store) SetAssignment(agentID, shopID int64, present bool) error {
	var err error
	if present {
		_, err = s.db.Exec(`INSERT OR IGNORE INTO assignments (agent_id, shop_id) VALUES (?, ?)`, agentID, shopID)
	} else {
		_, err = s.db.Exec(`DELETE FROM assignments WHERE agent_id = ? AND shop_id = ?`, agentID, shopID)
	}
	if err != nil {
		return fmt.Errorf("set assignment: %w", err)
	}
	return nil
}

// AgentShopsBySearch returns the agent's assigned shops whose names contain
// term case-insensitively, ordered by name. Empty term returns them all.
func (s *Store) AgentShopsBySearch(agentID int64, term string) ([]Shop, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.name, s.url
		FROM shops s
		JOIN assignments a ON a.shop_id = s.id
		WHERE a.agent_id = ? AND s.name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY s.name ASC`, agentID, term)
	if err != nil {
		return nil, fmt.Errorf("agent shops: %w", err)
	}
	defer rows.Close()
	return scanShops(rows)
}

func scanShops(rows *sql.Rows) ([]Shop, error) {
	var shops []Shop
	for rows.Next() {
		var shop Shop
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.URL); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}
