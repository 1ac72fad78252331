package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"worlds/internal/store"
)

func (q queries) GetCampaign(ctx context.Context, id int64) (*store.Campaign, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, description, settings FROM campaigns WHERE id = ?`, id)

	var c store.Campaign
	var settingsBytes []byte
	err := row.Scan(&c.ID, &c.Name, &c.Description, &settingsBytes)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting campaign: %w", err)
	}
	if len(settingsBytes) > 0 {
		if err := json.Unmarshal(settingsBytes, &c.Settings); err != nil {
			return nil, fmt.Errorf("unmarshaling settings: %w", err)
		}
	}
	return &c, nil
}

func (q queries) FindEntityByNameAndType(ctx context.Context, campaignID int64, name, entityType string) (int64, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id FROM entities WHERE campaign_id = ? AND name = ? AND entity_type = ? LIMIT 1`,
		campaignID, name, entityType)

	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("finding entity: %w", err)
	}
	return id, nil
}

func (q queries) FindTagByName(ctx context.Context, campaignID int64, name string) (int64, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE campaign_id = ? AND name = ? LIMIT 1`,
		campaignID, name)

	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("finding tag: %w", err)
	}
	return id, nil
}

const entityColumns = `id, campaign_id, entity_type, name, subtype, entry, image_path, is_private, parent_id, data`

func scanEntity(scanner interface{ Scan(dest ...any) error }) (store.EntityRecord, error) {
	var e store.EntityRecord
	var parentID sql.NullInt64
	var dataBytes []byte

	err := scanner.Scan(
		&e.ID,
		&e.CampaignID,
		&e.EntityType,
		&e.Name,
		&e.Subtype,
		&e.Entry,
		&e.ImagePath,
		&e.IsPrivate,
		&parentID,
		&dataBytes,
	)
	if err != nil {
		return e, err
	}

	if parentID.Valid {
		e.ParentID = &parentID.Int64
	}
	if len(dataBytes) > 0 {
		if err := json.Unmarshal(dataBytes, &e.Data); err != nil {
			return e, fmt.Errorf("unmarshaling entity data: %w", err)
		}
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	return e, nil
}

func (q queries) GetEntity(ctx context.Context, id int64) (*store.EntityRecord, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = ?`, id)

	e, err := scanEntity(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting entity: %w", err)
	}
	return &e, nil
}

func (q queries) ListEntities(ctx context.Context, campaignID int64) ([]store.EntityRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	entities := []store.EntityRecord{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return entities, nil
}

func (q queries) ListTags(ctx context.Context, campaignID int64) ([]store.TagRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, campaign_id, name, colour, description FROM tags WHERE campaign_id = ? ORDER BY id`,
		campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	tags := []store.TagRecord{}
	for rows.Next() {
		var t store.TagRecord
		if err := rows.Scan(&t.ID, &t.CampaignID, &t.Name, &t.Colour, &t.Description); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

func (q queries) ListRelations(ctx context.Context, campaignID int64) ([]store.RelationRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.source_id, r.target_id, r.relation, r.mirror, r.description, r.is_private
		FROM relations r
		JOIN entities e ON e.id = r.source_id
		WHERE e.campaign_id = ?
		ORDER BY r.id`,
		campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer rows.Close()

	relations := []store.RelationRecord{}
	for rows.Next() {
		var r store.RelationRecord
		if err := rows.Scan(&r.SourceID, &r.TargetID, &r.Relation, &r.Mirror, &r.Description, &r.IsPrivate); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return relations, nil
}

func (q queries) ListEntityTagLinks(ctx context.Context, campaignID int64) ([]store.EntityTagLink, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT et.entity_id, et.tag_id
		FROM entity_tags et
		JOIN entities e ON e.id = et.entity_id
		WHERE e.campaign_id = ?
		ORDER BY et.entity_id, et.tag_id`,
		campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing tag links: %w", err)
	}
	defer rows.Close()

	links := []store.EntityTagLink{}
	for rows.Next() {
		var l store.EntityTagLink
		if err := rows.Scan(&l.EntityID, &l.TagID); err != nil {
			return nil, fmt.Errorf("scanning tag link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag links: %w", err)
	}
	return links, nil
}

func (q queries) ListAttributes(ctx context.Context, campaignID int64) ([]store.AttributeRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.entity_id, a.name, a.value, a.is_private, a.position
		FROM attributes a
		JOIN entities e ON e.id = a.entity_id
		WHERE e.campaign_id = ?
		ORDER BY a.entity_id, a.position, a.id`,
		campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	defer rows.Close()

	attributes := []store.AttributeRecord{}
	for rows.Next() {
		var a store.AttributeRecord
		if err := rows.Scan(&a.EntityID, &a.Name, &a.Value, &a.IsPrivate, &a.Position); err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		attributes = append(attributes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attributes: %w", err)
	}
	return attributes, nil
}

func (q queries) ListPosts(ctx context.Context, campaignID int64) ([]store.PostRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT p.entity_id, p.name, p.entry, p.is_private, p.position
		FROM posts p
		JOIN entities e ON e.id = p.entity_id
		WHERE e.campaign_id = ?
		ORDER BY p.entity_id, p.position, p.id`,
		campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	posts := []store.PostRecord{}
	for rows.Next() {
		var p store.PostRecord
		if err := rows.Scan(&p.EntityID, &p.Name, &p.Entry, &p.IsPrivate, &p.Position); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}
