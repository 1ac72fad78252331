package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Reader is the read-only query surface shared by the store and its
// transactions. Conflict detection runs against it without taking locks;
// the apply step re-checks per record inside its own transaction.
type Reader interface {
	GetCampaign(ctx context.Context, id int64) (*Campaign, error)

	FindEntityByNameAndType(ctx context.Context, campaignID int64, name, entityType string) (int64, error)
	FindTagByName(ctx context.Context, campaignID int64, name string) (int64, error)

	GetEntity(ctx context.Context, id int64) (*EntityRecord, error)
	ListEntities(ctx context.Context, campaignID int64) ([]EntityRecord, error)
	ListTags(ctx context.Context, campaignID int64) ([]TagRecord, error)
	ListRelations(ctx context.Context, campaignID int64) ([]RelationRecord, error)
	ListEntityTagLinks(ctx context.Context, campaignID int64) ([]EntityTagLink, error)
	ListAttributes(ctx context.Context, campaignID int64) ([]AttributeRecord, error)
	ListPosts(ctx context.Context, campaignID int64) ([]PostRecord, error)
}

// Tx is the write surface available inside WithTx. DeleteEntity cascades to
// the entity's relations, tag links, attributes, posts, and child parent
// references. InsertEntityTagLink is idempotent against duplicates.
type Tx interface {
	Reader

	CreateCampaign(ctx context.Context, c Campaign) (int64, error)
	InsertEntity(ctx context.Context, e EntityRecord) (int64, error)
	DeleteEntity(ctx context.Context, id int64) error
	UpdateEntityParent(ctx context.Context, id, parentID int64) error
	InsertTag(ctx context.Context, t TagRecord) (int64, error)
	InsertRelation(ctx context.Context, r RelationRecord) error
	InsertEntityTagLink(ctx context.Context, entityID, tagID int64) error
	InsertAttribute(ctx context.Context, a AttributeRecord) error
	InsertPost(ctx context.Context, p PostRecord) error
}

// Store is implemented by the sqlite and postgres backends. WithTx runs fn
// inside a single transaction: commit when fn returns nil, rollback when it
// returns an error.
type Store interface {
	Reader

	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	WithTx(ctx context.Context, fn func(Tx) error) error
}
