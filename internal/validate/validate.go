package validate

import (
	"context"
	"fmt"

	"worlds/internal/schema"
	"worlds/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeUnknownType   = "unknown_entity_type"
	codeSchemaInvalid = "schema_violation"
	codeDuplicateName = "duplicate_name"
	codeOrphanParent  = "orphaned_parent"
)

type Issue struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	EntityID   int64    `json:"entity_id"`
	EntityName string   `json:"entity_name"`
	EntityType string   `json:"entity_type"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

// ErrorCount reports how many issues carry error severity.
func (r *Report) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// Run audits every entity of a campaign against the registered entity type
// schemas and the structural rules the store cannot enforce on its own.
func Run(ctx context.Context, registry *schema.Registry, reader store.Reader, campaignID int64) (*Report, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("store is required")
	}

	entities, err := reader.ListEntities(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	issues := make([]Issue, 0)

	byID := make(map[int64]struct{}, len(entities))
	for _, entity := range entities {
		byID[entity.ID] = struct{}{}
	}

	seen := make(map[string]int64)
	for _, entity := range entities {
		if !registry.TypeExists(entity.EntityType) {
			issues = append(issues, issueFor(entity, SeverityError, codeUnknownType,
				fmt.Sprintf("unknown entity type: %s", entity.EntityType)))
		} else {
			for _, msg := range registry.Validate(entity.EntityType, entity.Data) {
				issues = append(issues, issueFor(entity, SeverityError, codeSchemaInvalid, msg))
			}
		}

		key := entity.Name + "\x00" + entity.EntityType
		if firstID, exists := seen[key]; exists {
			issues = append(issues, issueFor(entity, SeverityWarn, codeDuplicateName,
				fmt.Sprintf("duplicate name %q shared with entity %d", entity.Name, firstID)))
		} else {
			seen[key] = entity.ID
		}

		if entity.ParentID != nil {
			if _, ok := byID[*entity.ParentID]; !ok {
				issues = append(issues, issueFor(entity, SeverityError, codeOrphanParent,
					fmt.Sprintf("parent entity %d does not exist in campaign", *entity.ParentID)))
			}
		}
	}

	return &Report{Issues: issues}, nil
}

func issueFor(entity store.EntityRecord, severity Severity, code, message string) Issue {
	return Issue{
		Severity:   severity,
		Code:       code,
		Message:    message,
		EntityID:   entity.ID,
		EntityName: entity.Name,
		EntityType: entity.EntityType,
	}
}
