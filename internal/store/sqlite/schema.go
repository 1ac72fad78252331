package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS campaigns (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		description TEXT DEFAULT '',
		settings    TEXT DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS entities (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		entity_type TEXT NOT NULL,
		name        TEXT NOT NULL,
		subtype     TEXT DEFAULT '',
		entry       TEXT DEFAULT '',
		image_path  TEXT DEFAULT '',
		is_private  INTEGER DEFAULT 0,
		parent_id   INTEGER REFERENCES entities(id) ON DELETE SET NULL,
		data        TEXT DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS tags (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		colour      TEXT DEFAULT '',
		description TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS relations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id   INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		target_id   INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		relation    TEXT NOT NULL,
		mirror      TEXT DEFAULT '',
		description TEXT DEFAULT '',
		is_private  INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS entity_tags (
		entity_id INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		tag_id    INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (entity_id, tag_id)
	);

	CREATE TABLE IF NOT EXISTS attributes (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_id  INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		value      TEXT DEFAULT '',
		is_private INTEGER DEFAULT 0,
		position   INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS posts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_id  INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		name       TEXT DEFAULT '',
		entry      TEXT DEFAULT '',
		is_private INTEGER DEFAULT 0,
		position   INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_entities_campaign ON entities (campaign_id);
	CREATE INDEX IF NOT EXISTS idx_entities_campaign_type ON entities (campaign_id, entity_type);
	CREATE INDEX IF NOT EXISTS idx_entities_campaign_name ON entities (campaign_id, name);
	CREATE INDEX IF NOT EXISTS idx_entities_parent ON entities (parent_id);
	CREATE INDEX IF NOT EXISTS idx_tags_campaign_name ON tags (campaign_id, name);
	CREATE INDEX IF NOT EXISTS idx_relations_source ON relations (source_id);
	CREATE INDEX IF NOT EXISTS idx_relations_target ON relations (target_id);
	CREATE INDEX IF NOT EXISTS idx_attributes_entity ON attributes (entity_id);
	CREATE INDEX IF NOT EXISTS idx_posts_entity ON posts (entity_id);
	`

	tx, err := c.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
