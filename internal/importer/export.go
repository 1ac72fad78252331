package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"worlds/internal/store"
)

type nativeDocument struct {
	Format string `json:"format"`
	*ImportBundle
}

// Export assembles a native-format bundle from a stored campaign. Store ids
// double as the bundle's source-local ids, so the output round-trips
// through Parse unchanged.
func Export(ctx context.Context, r store.Reader, campaignID int64) (*ImportBundle, error) {
	campaign, err := r.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("loading campaign %d: %w", campaignID, err)
	}

	bundle := &ImportBundle{
		Campaign: CampaignInfo{
			Name:        campaign.Name,
			Description: campaign.Description,
			Settings:    campaign.Settings,
		},
		Entities:   []Entity{},
		Relations:  []Relation{},
		Tags:       []Tag{},
		EntityTags: []EntityTag{},
		Attributes: []Attribute{},
		Posts:      []Post{},
	}

	entities, err := r.ListEntities(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	for _, e := range entities {
		bundle.Entities = append(bundle.Entities, Entity{
			SourceID:   e.ID,
			EntityType: e.EntityType,
			Name:       e.Name,
			Subtype:    e.Subtype,
			Entry:      e.Entry,
			ImagePath:  e.ImagePath,
			IsPrivate:  e.IsPrivate,
			ParentID:   e.ParentID,
			Data:       e.Data,
		})
	}

	relations, err := r.ListRelations(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	for _, rel := range relations {
		bundle.Relations = append(bundle.Relations, Relation{
			SourceID:    rel.SourceID,
			TargetID:    rel.TargetID,
			Relation:    rel.Relation,
			Mirror:      rel.Mirror,
			Description: rel.Description,
			IsPrivate:   rel.IsPrivate,
		})
	}

	tags, err := r.ListTags(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	for _, tag := range tags {
		bundle.Tags = append(bundle.Tags, Tag{
			SourceID:    tag.ID,
			Name:        tag.Name,
			Colour:      tag.Colour,
			Description: tag.Description,
		})
	}

	links, err := r.ListEntityTagLinks(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing tag links: %w", err)
	}
	for _, link := range links {
		bundle.EntityTags = append(bundle.EntityTags, EntityTag{
			EntityID: link.EntityID,
			TagID:    link.TagID,
		})
	}

	attributes, err := r.ListAttributes(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	for _, attr := range attributes {
		bundle.Attributes = append(bundle.Attributes, Attribute{
			EntityID:  attr.EntityID,
			Name:      attr.Name,
			Value:     attr.Value,
			IsPrivate: attr.IsPrivate,
			Position:  attr.Position,
		})
	}

	posts, err := r.ListPosts(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	for _, post := range posts {
		bundle.Posts = append(bundle.Posts, Post{
			EntityID:  post.EntityID,
			Name:      post.Name,
			Entry:     post.Entry,
			IsPrivate: post.IsPrivate,
			Position:  post.Position,
		})
	}

	return bundle, nil
}

// EncodeNative renders a bundle as the native export document, with the
// format marker that lets a re-import take the pass-through path.
func EncodeNative(bundle *ImportBundle) ([]byte, error) {
	data, err := json.MarshalIndent(nativeDocument{Format: string(FormatNative), ImportBundle: bundle}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}
