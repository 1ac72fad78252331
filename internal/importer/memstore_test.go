package importer

import (
	"context"
	"errors"
	"fmt"

	"worlds/internal/store"
)

// memStore is an in-memory store.Store with real transaction semantics:
// WithTx snapshots all state and restores it when the closure fails, so
// rollback behaviour can be asserted without a database.
type memStore struct {
	campaigns  map[int64]store.Campaign
	entities   map[int64]store.EntityRecord
	tags       map[int64]store.TagRecord
	relations  []store.RelationRecord
	links      []store.EntityTagLink
	attributes []store.AttributeRecord
	posts      []store.PostRecord
	nextID     int64

	failEntityName string
}

func newMemStore() *memStore {
	return &memStore{
		campaigns: map[int64]store.Campaign{},
		entities:  map[int64]store.EntityRecord{},
		tags:      map[int64]store.TagRecord{},
	}
}

var _ store.Store = (*memStore)(nil)
var _ store.Tx = (*memStore)(nil)

func (m *memStore) Close(ctx context.Context) error        { return nil }
func (m *memStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *memStore) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for id, campaign := range m.campaigns {
		c.campaigns[id] = campaign
	}
	for id, entity := range m.entities {
		c.entities[id] = entity
	}
	for id, tag := range m.tags {
		c.tags[id] = tag
	}
	c.relations = append([]store.RelationRecord{}, m.relations...)
	c.links = append([]store.EntityTagLink{}, m.links...)
	c.attributes = append([]store.AttributeRecord{}, m.attributes...)
	c.posts = append([]store.PostRecord{}, m.posts...)
	c.nextID = m.nextID
	c.failEntityName = m.failEntityName
	return c
}

func (m *memStore) allocID() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) GetCampaign(ctx context.Context, id int64) (*store.Campaign, error) {
	campaign, ok := m.campaigns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &campaign, nil
}

func (m *memStore) FindEntityByNameAndType(ctx context.Context, campaignID int64, name, entityType string) (int64, error) {
	for id, entity := range m.entities {
		if entity.CampaignID == campaignID && entity.Name == name && entity.EntityType == entityType {
			return id, nil
		}
	}
	return 0, store.ErrNotFound
}

func (m *memStore) FindTagByName(ctx context.Context, campaignID int64, name string) (int64, error) {
	for id, tag := range m.tags {
		if tag.CampaignID == campaignID && tag.Name == name {
			return id, nil
		}
	}
	return 0, store.ErrNotFound
}

func (m *memStore) GetEntity(ctx context.Context, id int64) (*store.EntityRecord, error) {
	entity, ok := m.entities[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &entity, nil
}

func (m *memStore) ListEntities(ctx context.Context, campaignID int64) ([]store.EntityRecord, error) {
	out := []store.EntityRecord{}
	for id := int64(1); id <= m.nextID; id++ {
		if entity, ok := m.entities[id]; ok && entity.CampaignID == campaignID {
			out = append(out, entity)
		}
	}
	return out, nil
}

func (m *memStore) ListTags(ctx context.Context, campaignID int64) ([]store.TagRecord, error) {
	out := []store.TagRecord{}
	for id := int64(1); id <= m.nextID; id++ {
		if tag, ok := m.tags[id]; ok && tag.CampaignID == campaignID {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (m *memStore) ListRelations(ctx context.Context, campaignID int64) ([]store.RelationRecord, error) {
	out := []store.RelationRecord{}
	for _, rel := range m.relations {
		if entity, ok := m.entities[rel.SourceID]; ok && entity.CampaignID == campaignID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (m *memStore) ListEntityTagLinks(ctx context.Context, campaignID int64) ([]store.EntityTagLink, error) {
	out := []store.EntityTagLink{}
	for _, link := range m.links {
		if entity, ok := m.entities[link.EntityID]; ok && entity.CampaignID == campaignID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *memStore) ListAttributes(ctx context.Context, campaignID int64) ([]store.AttributeRecord, error) {
	out := []store.AttributeRecord{}
	for _, attr := range m.attributes {
		if entity, ok := m.entities[attr.EntityID]; ok && entity.CampaignID == campaignID {
			out = append(out, attr)
		}
	}
	return out, nil
}

func (m *memStore) ListPosts(ctx context.Context, campaignID int64) ([]store.PostRecord, error) {
	out := []store.PostRecord{}
	for _, post := range m.posts {
		if entity, ok := m.entities[post.EntityID]; ok && entity.CampaignID == campaignID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (m *memStore) CreateCampaign(ctx context.Context, c store.Campaign) (int64, error) {
	id := m.allocID()
	c.ID = id
	m.campaigns[id] = c
	return id, nil
}

func (m *memStore) InsertEntity(ctx context.Context, e store.EntityRecord) (int64, error) {
	if m.failEntityName != "" && e.Name == m.failEntityName {
		return 0, errors.New("forced insert failure")
	}
	id := m.allocID()
	e.ID = id
	m.entities[id] = e
	return id, nil
}

func (m *memStore) DeleteEntity(ctx context.Context, id int64) error {
	delete(m.entities, id)
	// Cascade like the real backends' foreign keys do.
	relations := m.relations[:0]
	for _, rel := range m.relations {
		if rel.SourceID != id && rel.TargetID != id {
			relations = append(relations, rel)
		}
	}
	m.relations = relations

	links := m.links[:0]
	for _, link := range m.links {
		if link.EntityID != id {
			links = append(links, link)
		}
	}
	m.links = links

	attributes := m.attributes[:0]
	for _, attr := range m.attributes {
		if attr.EntityID != id {
			attributes = append(attributes, attr)
		}
	}
	m.attributes = attributes

	posts := m.posts[:0]
	for _, post := range m.posts {
		if post.EntityID != id {
			posts = append(posts, post)
		}
	}
	m.posts = posts

	for childID, child := range m.entities {
		if child.ParentID != nil && *child.ParentID == id {
			child.ParentID = nil
			m.entities[childID] = child
		}
	}
	return nil
}

func (m *memStore) UpdateEntityParent(ctx context.Context, id, parentID int64) error {
	entity, ok := m.entities[id]
	if !ok {
		return fmt.Errorf("entity %d: %w", id, store.ErrNotFound)
	}
	entity.ParentID = &parentID
	m.entities[id] = entity
	return nil
}

func (m *memStore) InsertTag(ctx context.Context, tag store.TagRecord) (int64, error) {
	id := m.allocID()
	tag.ID = id
	m.tags[id] = tag
	return id, nil
}

func (m *memStore) InsertRelation(ctx context.Context, r store.RelationRecord) error {
	m.relations = append(m.relations, r)
	return nil
}

func (m *memStore) InsertEntityTagLink(ctx context.Context, entityID, tagID int64) error {
	for _, link := range m.links {
		if link.EntityID == entityID && link.TagID == tagID {
			return nil
		}
	}
	m.links = append(m.links, store.EntityTagLink{EntityID: entityID, TagID: tagID})
	return nil
}

func (m *memStore) InsertAttribute(ctx context.Context, a store.AttributeRecord) error {
	m.attributes = append(m.attributes, a)
	return nil
}

func (m *memStore) InsertPost(ctx context.Context, p store.PostRecord) error {
	m.posts = append(m.posts, p)
	return nil
}
