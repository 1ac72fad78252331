package importer

import (
	"context"
	"errors"
	"fmt"

	"worlds/internal/store"
)

// Resolution is the conflict policy applied uniformly during Apply.
type Resolution string

const (
	ResolutionSkip      Resolution = "skip"
	ResolutionOverwrite Resolution = "overwrite"
	ResolutionKeepBoth  Resolution = "keep_both"
)

// importedSuffix is appended to renamed records under keep_both.
const importedSuffix = " (imported)"

func validResolution(r Resolution) bool {
	switch r {
	case ResolutionSkip, ResolutionOverwrite, ResolutionKeepBoth:
		return true
	}
	return false
}

// Apply replays the bundle into the target campaign inside a single
// transaction: every write succeeds or none do. When campaignID is zero the
// bundle's campaign is created first, inside the same transaction, and the
// records land there.
//
// Write order matters: tags, then entities, then a second pass re-linking
// parents through the id map (a child can precede its parent in array
// order), then relations, tag links, attributes, and posts. References
// whose source id never resolved are dropped silently, not errored.
func Apply(ctx context.Context, st store.Store, bundle *ImportBundle, campaignID int64, resolution Resolution) (*ImportStats, error) {
	if !validResolution(resolution) {
		return nil, fmt.Errorf("invalid conflict resolution %q", resolution)
	}

	stats := &ImportStats{}
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if campaignID == 0 {
			name := bundle.Campaign.Name
			if name == "" {
				name = "Imported Campaign"
			}
			id, err := tx.CreateCampaign(ctx, store.Campaign{
				Name:        name,
				Description: bundle.Campaign.Description,
				Settings:    bundle.Campaign.Settings,
			})
			if err != nil {
				return fmt.Errorf("creating campaign: %w", err)
			}
			campaignID = id
		}

		tagIDs, err := applyTags(ctx, tx, bundle, campaignID, resolution, stats)
		if err != nil {
			return err
		}

		entityIDs, err := applyEntities(ctx, tx, bundle, campaignID, resolution, stats)
		if err != nil {
			return err
		}

		if err := applyParents(ctx, tx, bundle, entityIDs); err != nil {
			return err
		}

		for _, rel := range bundle.Relations {
			sourceID, ok := entityIDs[rel.SourceID]
			if !ok {
				continue
			}
			targetID, ok := entityIDs[rel.TargetID]
			if !ok {
				continue
			}
			err := tx.InsertRelation(ctx, store.RelationRecord{
				SourceID:    sourceID,
				TargetID:    targetID,
				Relation:    rel.Relation,
				Mirror:      rel.Mirror,
				Description: rel.Description,
				IsPrivate:   rel.IsPrivate,
			})
			if err != nil {
				return fmt.Errorf("inserting relation: %w", err)
			}
			stats.Relations++
		}

		for _, link := range bundle.EntityTags {
			entityID, ok := entityIDs[link.EntityID]
			if !ok {
				continue
			}
			tagID, ok := tagIDs[link.TagID]
			if !ok {
				continue
			}
			if err := tx.InsertEntityTagLink(ctx, entityID, tagID); err != nil {
				return fmt.Errorf("linking tag: %w", err)
			}
		}

		for _, attr := range bundle.Attributes {
			entityID, ok := entityIDs[attr.EntityID]
			if !ok {
				continue
			}
			err := tx.InsertAttribute(ctx, store.AttributeRecord{
				EntityID:  entityID,
				Name:      attr.Name,
				Value:     attr.Value,
				IsPrivate: attr.IsPrivate,
				Position:  attr.Position,
			})
			if err != nil {
				return fmt.Errorf("inserting attribute %q: %w", attr.Name, err)
			}
			stats.Attributes++
		}

		for _, post := range bundle.Posts {
			entityID, ok := entityIDs[post.EntityID]
			if !ok {
				continue
			}
			err := tx.InsertPost(ctx, store.PostRecord{
				EntityID:  entityID,
				Name:      post.Name,
				Entry:     post.Entry,
				IsPrivate: post.IsPrivate,
				Position:  post.Position,
			})
			if err != nil {
				return fmt.Errorf("inserting post: %w", err)
			}
			stats.Posts++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// applyTags writes tags first so later tag links can resolve. Under skip a
// colliding tag maps to the existing row; under keep_both it is renamed and
// inserted; under overwrite a new row is inserted alongside the old one
// (tag overwrite never deletes, unlike entities).
func applyTags(ctx context.Context, tx store.Tx, bundle *ImportBundle, campaignID int64, resolution Resolution, stats *ImportStats) (map[int64]int64, error) {
	tagIDs := make(map[int64]int64, len(bundle.Tags))

	for _, tag := range bundle.Tags {
		name := tag.Name
		existingID, err := tx.FindTagByName(ctx, campaignID, name)
		switch {
		case err == nil:
			switch resolution {
			case ResolutionSkip:
				tagIDs[tag.SourceID] = existingID
				continue
			case ResolutionKeepBoth:
				name += importedSuffix
			}
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("checking tag %q: %w", name, err)
		}

		id, err := tx.InsertTag(ctx, store.TagRecord{
			CampaignID:  campaignID,
			Name:        name,
			Colour:      tag.Colour,
			Description: tag.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting tag %q: %w", name, err)
		}
		tagIDs[tag.SourceID] = id
		stats.Tags++
	}

	return tagIDs, nil
}

// applyEntities writes entities and builds the source-id to target-id map.
// Skipped entities still map to their existing target row so relations,
// attributes, and posts referencing them resolve.
func applyEntities(ctx context.Context, tx store.Tx, bundle *ImportBundle, campaignID int64, resolution Resolution, stats *ImportStats) (map[int64]int64, error) {
	entityIDs := make(map[int64]int64, len(bundle.Entities))

	for _, entity := range bundle.Entities {
		name := entity.Name
		existingID, err := tx.FindEntityByNameAndType(ctx, campaignID, name, entity.EntityType)
		switch {
		case err == nil:
			switch resolution {
			case ResolutionSkip:
				entityIDs[entity.SourceID] = existingID
				continue
			case ResolutionKeepBoth:
				name += importedSuffix
			case ResolutionOverwrite:
				if err := tx.DeleteEntity(ctx, existingID); err != nil {
					return nil, fmt.Errorf("deleting entity %q: %w", name, err)
				}
			}
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("checking entity %q: %w", name, err)
		}

		id, err := tx.InsertEntity(ctx, store.EntityRecord{
			CampaignID: campaignID,
			EntityType: entity.EntityType,
			Name:       name,
			Subtype:    entity.Subtype,
			Entry:      entity.Entry,
			ImagePath:  entity.ImagePath,
			IsPrivate:  entity.IsPrivate,
			Data:       entity.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting entity %q: %w", name, err)
		}
		entityIDs[entity.SourceID] = id
		stats.Entities++
	}

	return entityIDs, nil
}

// applyParents is the second pass over entities: parent references resolve
// through the completed id map, so import order within the bundle does not
// matter.
func applyParents(ctx context.Context, tx store.Tx, bundle *ImportBundle, entityIDs map[int64]int64) error {
	for _, entity := range bundle.Entities {
		if entity.ParentID == nil {
			continue
		}
		id, ok := entityIDs[entity.SourceID]
		if !ok {
			continue
		}
		parentID, ok := entityIDs[*entity.ParentID]
		if !ok {
			continue
		}
		if err := tx.UpdateEntityParent(ctx, id, parentID); err != nil {
			return fmt.Errorf("linking parent of %q: %w", entity.Name, err)
		}
	}
	return nil
}
