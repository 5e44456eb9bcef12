package store

// Shop is a delivery shop an admin registers and agents open by link.
type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Agent is a field user who logs in with a secret code.
// ChatID is the platform identity bound on first successful login; it stays
// NULL until then.
type Agent struct {
	ID         int64  `json:"id"`
	ChatID     string `json:"chat_id,omitempty"`
	Name       string `json:"name"`
	SecretCode string `json:"secret_code"`
}

const Schema = `
CREATE TABLE IF NOT EXISTS shops (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	url TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS agents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id TEXT UNIQUE,
	name TEXT NOT NULL,
	secret_code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS assignments (
	agent_id INTEGER NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
	shop_id INTEGER NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
	PRIMARY KEY (agent_id, shop_id)
);

CREATE INDEX IF NOT EXISTS idx_assignments_shop ON assignments(shop_id);
`
