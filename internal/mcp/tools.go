package mcp

import (
	"context"
	"fmt"
	"sort"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"worlds/internal/store"
)

type ListEntityTypesInput struct{}

type GetEntityTypeInput struct {
	Name string `json:"name" jsonschema:"entity type name"`
}

type ValidateEntityInput struct {
	Type string         `json:"type" jsonschema:"entity type to validate against"`
	Data map[string]any `json:"data" jsonschema:"entity data fields"`
}

type ListEntitiesInput struct {
	CampaignID int64  `json:"campaign_id" jsonschema:"campaign to list"`
	Type       string `json:"type,omitempty" jsonschema:"entity type filter"`
}

type GetEntityInput struct {
	ID int64 `json:"id" jsonschema:"entity id"`
}

type GetCampaignInput struct {
	ID int64 `json:"id" jsonschema:"campaign id"`
}

type EntityTypeSummaryOutput struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	PluralLabel string `json:"plural_label"`
	HasSchema   bool   `json:"has_schema"`
}

type ListEntityTypesOutput struct {
	Types []EntityTypeSummaryOutput `json:"types"`
}

type FieldOutput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
}

type EntityTypeOutput struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	PluralLabel string        `json:"plural_label"`
	Fields      []FieldOutput `json:"fields"`
}

type ValidateEntityOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type EntityOutput struct {
	ID         int64          `json:"id"`
	EntityType string         `json:"type"`
	Name       string         `json:"name"`
	Subtype    string         `json:"subtype,omitempty"`
	Entry      string         `json:"entry,omitempty"`
	IsPrivate  bool           `json:"is_private"`
	ParentID   *int64         `json:"parent_id,omitempty"`
	Data       map[string]any `json:"data"`
}

type ListEntitiesOutput struct {
	Entities []EntityOutput `json:"entities"`
}

type CampaignOutput struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Settings    map[string]any `json:"settings"`
	EntityCount int            `json:"entity_count"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entity_types",
		Description: "List the entity type catalog with display labels",
	}, s.handleListEntityTypes)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity_type",
		Description: "Return the field definitions for one entity type",
	}, s.handleGetEntityType)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_entity",
		Description: "Validate entity data against its type schema",
	}, s.handleValidateEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List a campaign's entities with an optional type filter",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity",
		Description: "Retrieve one entity and its data fields",
	}, s.handleGetEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_campaign",
		Description: "Retrieve a campaign and its entity count",
	}, s.handleGetCampaign)
}

func (s *Server) handleListEntityTypes(ctx context.Context, req *sdk.CallToolRequest, input ListEntityTypesInput) (*sdk.CallToolResult, ListEntityTypesOutput, error) {
	names := s.registry.TypeNames()
	output := make([]EntityTypeSummaryOutput, 0, len(names))
	for _, name := range names {
		output = append(output, EntityTypeSummaryOutput{
			Name:        name,
			Label:       s.registry.Label(name),
			PluralLabel: s.registry.PluralLabel(name),
			HasSchema:   s.registry.Schema(name) != nil,
		})
	}
	return nil, ListEntityTypesOutput{Types: output}, nil
}

func (s *Server) handleGetEntityType(ctx context.Context, req *sdk.CallToolRequest, input GetEntityTypeInput) (*sdk.CallToolResult, EntityTypeOutput, error) {
	if input.Name == "" {
		return nil, EntityTypeOutput{}, fmt.Errorf("name is required")
	}
	if !s.registry.TypeExists(input.Name) {
		return nil, EntityTypeOutput{}, fmt.Errorf("unknown entity type: %s", input.Name)
	}

	infos := s.registry.FieldInfos(input.Name)
	names := make([]string, 0, len(infos))
	for name := range infos {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]FieldOutput, 0, len(names))
	for _, name := range names {
		info := infos[name]
		fields = append(fields, FieldOutput{
			Name:        name,
			Type:        info.Type,
			Description: info.Description,
			Required:    info.Required,
			Default:     info.Default,
			Enum:        info.Enum,
		})
	}

	return nil, EntityTypeOutput{
		Name:        input.Name,
		Label:       s.registry.Label(input.Name),
		PluralLabel: s.registry.PluralLabel(input.Name),
		Fields:      fields,
	}, nil
}

func (s *Server) handleValidateEntity(ctx context.Context, req *sdk.CallToolRequest, input ValidateEntityInput) (*sdk.CallToolResult, ValidateEntityOutput, error) {
	if input.Type == "" {
		return nil, ValidateEntityOutput{}, fmt.Errorf("type is required")
	}
	errs := s.registry.Validate(input.Type, input.Data)
	if errs == nil {
		errs = []string{}
	}
	return nil, ValidateEntityOutput{Valid: len(errs) == 0, Errors: errs}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	if input.CampaignID == 0 {
		return nil, ListEntitiesOutput{}, fmt.Errorf("campaign_id is required")
	}
	entities, err := s.db.ListEntities(ctx, input.CampaignID)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := make([]EntityOutput, 0, len(entities))
	for _, entity := range entities {
		if input.Type != "" && entity.EntityType != input.Type {
			continue
		}
		output = append(output, entityOutputFromRecord(entity))
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleGetEntity(ctx context.Context, req *sdk.CallToolRequest, input GetEntityInput) (*sdk.CallToolResult, EntityOutput, error) {
	if input.ID == 0 {
		return nil, EntityOutput{}, fmt.Errorf("id is required")
	}
	entity, err := s.db.GetEntity(ctx, input.ID)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	return nil, entityOutputFromRecord(*entity), nil
}

func (s *Server) handleGetCampaign(ctx context.Context, req *sdk.CallToolRequest, input GetCampaignInput) (*sdk.CallToolResult, CampaignOutput, error) {
	if input.ID == 0 {
		return nil, CampaignOutput{}, fmt.Errorf("id is required")
	}
	campaign, err := s.db.GetCampaign(ctx, input.ID)
	if err != nil {
		return nil, CampaignOutput{}, err
	}
	entities, err := s.db.ListEntities(ctx, input.ID)
	if err != nil {
		return nil, CampaignOutput{}, err
	}

	settings := campaign.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	return nil, CampaignOutput{
		ID:          campaign.ID,
		Name:        campaign.Name,
		Description: campaign.Description,
		Settings:    settings,
		EntityCount: len(entities),
	}, nil
}

func entityOutputFromRecord(entity store.EntityRecord) EntityOutput {
	data := entity.Data
	if data == nil {
		data = map[string]any{}
	}
	return EntityOutput{
		ID:         entity.ID,
		EntityType: entity.EntityType,
		Name:       entity.Name,
		Subtype:    entity.Subtype,
		Entry:      entity.Entry,
		IsPrivate:  entity.IsPrivate != 0,
		ParentID:   entity.ParentID,
		Data:       data,
	}
}
