package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"worlds/internal/store"
)

func (t *Tx) CreateCampaign(ctx context.Context, c store.Campaign) (int64, error) {
	settings := c.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return 0, fmt.Errorf("marshaling settings: %w", err)
	}

	var id int64
	err = t.db.QueryRow(ctx,
		`INSERT INTO campaigns (name, description, settings) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Description, settingsJSON).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting campaign: %w", err)
	}
	return id, nil
}

func (t *Tx) InsertEntity(ctx context.Context, e store.EntityRecord) (int64, error) {
	data := e.Data
	if data == nil {
		data = map[string]any{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("marshaling entity data: %w", err)
	}

	var id int64
	err = t.db.QueryRow(ctx, `
		INSERT INTO entities (campaign_id, entity_type, name, subtype, entry, image_path, is_private, parent_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		e.CampaignID,
		e.EntityType,
		e.Name,
		e.Subtype,
		e.Entry,
		e.ImagePath,
		e.IsPrivate,
		e.ParentID,
		dataJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting entity: %w", err)
	}
	return id, nil
}

func (t *Tx) DeleteEntity(ctx context.Context, id int64) error {
	if _, err := t.db.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	return nil
}

func (t *Tx) UpdateEntityParent(ctx context.Context, id, parentID int64) error {
	if _, err := t.db.Exec(ctx,
		`UPDATE entities SET parent_id = $1 WHERE id = $2`, parentID, id); err != nil {
		return fmt.Errorf("updating entity parent: %w", err)
	}
	return nil
}

func (t *Tx) InsertTag(ctx context.Context, tag store.TagRecord) (int64, error) {
	var id int64
	err := t.db.QueryRow(ctx,
		`INSERT INTO tags (campaign_id, name, colour, description) VALUES ($1, $2, $3, $4) RETURNING id`,
		tag.CampaignID, tag.Name, tag.Colour, tag.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting tag: %w", err)
	}
	return id, nil
}

func (t *Tx) InsertRelation(ctx context.Context, r store.RelationRecord) error {
	_, err := t.db.Exec(ctx, `
		INSERT INTO relations (source_id, target_id, relation, mirror, description, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.SourceID, r.TargetID, r.Relation, r.Mirror, r.Description, r.IsPrivate)
	if err != nil {
		return fmt.Errorf("inserting relation: %w", err)
	}
	return nil
}

func (t *Tx) InsertEntityTagLink(ctx context.Context, entityID, tagID int64) error {
	// ON CONFLICT keeps repeat links a no-op.
	_, err := t.db.Exec(ctx, `
		INSERT INTO entity_tags (entity_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		entityID, tagID)
	if err != nil {
		return fmt.Errorf("inserting tag link: %w", err)
	}
	return nil
}

func (t *Tx) InsertAttribute(ctx context.Context, a store.AttributeRecord) error {
	_, err := t.db.Exec(ctx, `
		INSERT INTO attributes (entity_id, name, value, is_private, position)
		VALUES ($1, $2, $3, $4, $5)`,
		a.EntityID, a.Name, a.Value, a.IsPrivate, a.Position)
	if err != nil {
		return fmt.Errorf("inserting attribute: %w", err)
	}
	return nil
}

func (t *Tx) InsertPost(ctx context.Context, p store.PostRecord) error {
	_, err := t.db.Exec(ctx, `
		INSERT INTO posts (entity_id, name, entry, is_private, position)
		VALUES ($1, $2, $3, $4, $5)`,
		p.EntityID, p.Name, p.Entry, p.IsPrivate, p.Position)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}
