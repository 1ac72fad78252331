package importer

import (
	"context"
	"testing"
)

func testBundle() *ImportBundle {
	parent := int64(2)
	return &ImportBundle{
		Campaign: CampaignInfo{Name: "Emberfall", Description: "A dying world"},
		Entities: []Entity{
			// Child listed before its parent: the second pass must fix it up.
			{SourceID: 1, EntityType: "character", Name: "Aria", ParentID: &parent},
			{SourceID: 2, EntityType: "location", Name: "Hollow Keep"},
		},
		Relations: []Relation{
			{SourceID: 1, TargetID: 2, Relation: "rules"},
		},
		Tags: []Tag{
			{SourceID: 10, Name: "plot", Colour: "red"},
		},
		EntityTags: []EntityTag{
			{EntityID: 1, TagID: 10},
		},
		Attributes: []Attribute{
			{EntityID: 1, Name: "strength", Value: "18", Position: 1},
		},
		Posts: []Post{
			{EntityID: 1, Name: "Backstory", Entry: "Born in exile."},
		},
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid resolution is rejected", func(t *testing.T) {
		m := newMemStore()
		if _, err := Apply(ctx, m, testBundle(), 0, Resolution("merge")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero campaign creates one and imports everything", func(t *testing.T) {
		m := newMemStore()

		stats, err := Apply(ctx, m, testBundle(), 0, ResolutionSkip)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if stats.Entities != 2 || stats.Tags != 1 || stats.Relations != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		if stats.Attributes != 1 || stats.Posts != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}

		if len(m.campaigns) != 1 {
			t.Fatalf("expected 1 campaign, got %d", len(m.campaigns))
		}
		var campaignID int64
		for id, campaign := range m.campaigns {
			campaignID = id
			if campaign.Name != "Emberfall" {
				t.Fatalf("unexpected campaign name: %q", campaign.Name)
			}
		}

		entities, _ := m.ListEntities(ctx, campaignID)
		if len(entities) != 2 {
			t.Fatalf("expected 2 entities, got %d", len(entities))
		}

		// Parent was re-linked through the id map in the second pass.
		aria, err := m.GetEntity(ctx, mustFindEntity(t, m, campaignID, "Aria", "character"))
		if err != nil {
			t.Fatalf("get entity: %v", err)
		}
		keepID := mustFindEntity(t, m, campaignID, "Hollow Keep", "location")
		if aria.ParentID == nil || *aria.ParentID != keepID {
			t.Fatalf("expected parent %d, got %v", keepID, aria.ParentID)
		}

		relations, _ := m.ListRelations(ctx, campaignID)
		if len(relations) != 1 || relations[0].SourceID != aria.ID || relations[0].TargetID != keepID {
			t.Fatalf("unexpected relations: %+v", relations)
		}

		links, _ := m.ListEntityTagLinks(ctx, campaignID)
		if len(links) != 1 || links[0].EntityID != aria.ID {
			t.Fatalf("unexpected tag links: %+v", links)
		}
	})

	t.Run("unnamed campaign gets a placeholder name", func(t *testing.T) {
		m := newMemStore()
		bundle := testBundle()
		bundle.Campaign.Name = ""

		if _, err := Apply(ctx, m, bundle, 0, ResolutionSkip); err != nil {
			t.Fatalf("apply: %v", err)
		}
		for _, campaign := range m.campaigns {
			if campaign.Name != "Imported Campaign" {
				t.Fatalf("unexpected campaign name: %q", campaign.Name)
			}
		}
	})

	t.Run("skip maps colliding records to existing rows", func(t *testing.T) {
		m := newMemStore()
		campaignID := seedCampaign(t, m)
		existingID := mustFindEntity(t, m, campaignID, "Aria", "character")

		stats, err := Apply(ctx, m, testBundle(), campaignID, ResolutionSkip)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		// Aria and the plot tag already existed; only Hollow Keep is new.
		if stats.Entities != 1 || stats.Tags != 0 {
			t.Fatalf("unexpected stats: %+v", stats)
		}

		// The relation still resolves, through the existing row.
		relations, _ := m.ListRelations(ctx, campaignID)
		if len(relations) != 1 || relations[0].SourceID != existingID {
			t.Fatalf("unexpected relations: %+v", relations)
		}
		attributes, _ := m.ListAttributes(ctx, campaignID)
		if len(attributes) != 1 || attributes[0].EntityID != existingID {
			t.Fatalf("unexpected attributes: %+v", attributes)
		}
	})

	t.Run("keep_both renames colliding records", func(t *testing.T) {
		m := newMemStore()
		campaignID := seedCampaign(t, m)

		stats, err := Apply(ctx, m, testBundle(), campaignID, ResolutionKeepBoth)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if stats.Entities != 2 || stats.Tags != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}

		if _, err := m.FindEntityByNameAndType(ctx, campaignID, "Aria (imported)", "character"); err != nil {
			t.Fatalf("expected renamed entity: %v", err)
		}
		if _, err := m.FindEntityByNameAndType(ctx, campaignID, "Aria", "character"); err != nil {
			t.Fatalf("expected original entity to survive: %v", err)
		}
		if _, err := m.FindTagByName(ctx, campaignID, "plot (imported)"); err != nil {
			t.Fatalf("expected renamed tag: %v", err)
		}
	})

	t.Run("overwrite replaces entities but never deletes tags", func(t *testing.T) {
		m := newMemStore()
		campaignID := seedCampaign(t, m)
		existingID := mustFindEntity(t, m, campaignID, "Aria", "character")
		existingTagID, _ := m.FindTagByName(ctx, campaignID, "plot")

		stats, err := Apply(ctx, m, testBundle(), campaignID, ResolutionOverwrite)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if stats.Entities != 2 || stats.Tags != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}

		if _, err := m.GetEntity(ctx, existingID); err == nil {
			t.Fatalf("expected old entity to be deleted")
		}
		newID := mustFindEntity(t, m, campaignID, "Aria", "character")
		if newID == existingID {
			t.Fatalf("expected a fresh row for Aria")
		}

		// The old tag survives alongside the imported one.
		if _, ok := m.tags[existingTagID]; !ok {
			t.Fatalf("expected existing tag to survive overwrite")
		}
		tags, _ := m.ListTags(ctx, campaignID)
		if len(tags) != 2 {
			t.Fatalf("expected 2 plot tags, got %d", len(tags))
		}
	})

	t.Run("dangling references are dropped silently", func(t *testing.T) {
		m := newMemStore()
		bundle := testBundle()
		bundle.Relations = append(bundle.Relations, Relation{SourceID: 1, TargetID: 99, Relation: "knows"})
		bundle.Attributes = append(bundle.Attributes, Attribute{EntityID: 99, Name: "ghost"})
		bundle.Posts = append(bundle.Posts, Post{EntityID: 99, Entry: "lost"})
		bundle.EntityTags = append(bundle.EntityTags, EntityTag{EntityID: 1, TagID: 99})

		stats, err := Apply(ctx, m, bundle, 0, ResolutionSkip)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if stats.Relations != 1 || stats.Attributes != 1 || stats.Posts != 1 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
	})

	t.Run("failure rolls back every write", func(t *testing.T) {
		m := newMemStore()
		campaignID := seedCampaign(t, m)
		m.failEntityName = "Hollow Keep"

		if _, err := Apply(ctx, m, testBundle(), campaignID, ResolutionKeepBoth); err == nil {
			t.Fatalf("expected error")
		}

		// The renamed Aria insert preceding the failure must be gone.
		if _, err := m.FindEntityByNameAndType(ctx, campaignID, "Aria (imported)", "character"); err == nil {
			t.Fatalf("expected rollback of renamed entity")
		}
		if _, err := m.FindTagByName(ctx, campaignID, "plot (imported)"); err == nil {
			t.Fatalf("expected rollback of renamed tag")
		}
		entities, _ := m.ListEntities(ctx, campaignID)
		if len(entities) != 1 {
			t.Fatalf("expected only the seeded entity, got %d", len(entities))
		}
	})
}

func mustFindEntity(t *testing.T, m *memStore, campaignID int64, name, entityType string) int64 {
	t.Helper()
	id, err := m.FindEntityByNameAndType(context.Background(), campaignID, name, entityType)
	if err != nil {
		t.Fatalf("finding %s %q: %v", entityType, name, err)
	}
	return id
}
