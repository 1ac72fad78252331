package importer

import (
	"context"
	"errors"
	"fmt"

	"worlds/internal/store"
)

// ConflictReport lists the bundle records whose names collide with rows
// already in the target campaign. It is a read-only probe: nothing is
// reserved, and Apply re-checks per record rather than trusting it.
type ConflictReport struct {
	Entities []EntityConflict `json:"entity_name_conflicts"`
	Tags     []TagConflict    `json:"tag_name_conflicts"`
}

type EntityConflict struct {
	Name       string `json:"name"`
	EntityType string `json:"type"`
	ExistingID int64  `json:"existing_target_id"`
}

type TagConflict struct {
	Name       string `json:"name"`
	ExistingID int64  `json:"existing_target_id"`
}

// Empty reports whether the bundle can apply without any resolution choice.
func (r *ConflictReport) Empty() bool {
	return len(r.Entities) == 0 && len(r.Tags) == 0
}

// DetectConflicts probes the target campaign for name collisions. Entities
// conflict on (campaign, exact name, entity type); tags on (campaign, exact
// name). With no target campaign the import creates a fresh campaign, so
// the report is empty.
func DetectConflicts(ctx context.Context, r store.Reader, bundle *ImportBundle, campaignID int64) (*ConflictReport, error) {
	report := &ConflictReport{
		Entities: []EntityConflict{},
		Tags:     []TagConflict{},
	}
	if campaignID == 0 {
		return report, nil
	}

	for _, entity := range bundle.Entities {
		id, err := r.FindEntityByNameAndType(ctx, campaignID, entity.Name, entity.EntityType)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking entity %q: %w", entity.Name, err)
		}
		report.Entities = append(report.Entities, EntityConflict{
			Name:       entity.Name,
			EntityType: entity.EntityType,
			ExistingID: id,
		})
	}

	for _, tag := range bundle.Tags {
		id, err := r.FindTagByName(ctx, campaignID, tag.Name)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking tag %q: %w", tag.Name, err)
		}
		report.Tags = append(report.Tags, TagConflict{
			Name:       tag.Name,
			ExistingID: id,
		})
	}

	return report, nil
}
