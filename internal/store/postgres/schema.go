package postgres

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS campaigns (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT DEFAULT '',
		settings    JSONB DEFAULT '{}'::jsonb
	);

	CREATE TABLE IF NOT EXISTS entities (
		id          BIGSERIAL PRIMARY KEY,
		campaign_id BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		entity_type TEXT NOT NULL,
		name        TEXT NOT NULL,
		subtype     TEXT DEFAULT '',
		entry       TEXT DEFAULT '',
		image_path  TEXT DEFAULT '',
		is_private  INTEGER DEFAULT 0,
		parent_id   BIGINT REFERENCES entities(id) ON DELETE SET NULL,
		data        JSONB DEFAULT '{}'::jsonb
	);

	CREATE TABLE IF NOT EXISTS tags (
		id          BIGSERIAL PRIMARY KEY,
		campaign_id BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		colour      TEXT DEFAULT '',
		description TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS relations (
		id          BIGSERIAL PRIMARY KEY,
		source_id   BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		target_id   BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		relation    TEXT NOT NULL,
		mirror      TEXT DEFAULT '',
		description TEXT DEFAULT '',
		is_private  INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS entity_tags (
		entity_id BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		tag_id    BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (entity_id, tag_id)
	);

	CREATE TABLE IF NOT EXISTS attributes (
		id         BIGSERIAL PRIMARY KEY,
		entity_id  BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		value      TEXT DEFAULT '',
		is_private INTEGER DEFAULT 0,
		position   INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS posts (
		id         BIGSERIAL PRIMARY KEY,
		entity_id  BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
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

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	return nil
}
