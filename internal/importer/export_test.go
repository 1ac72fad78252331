package importer

import (
	"context"
	"testing"
)

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()

	if _, err := Apply(ctx, m, testBundle(), 0, ResolutionSkip); err != nil {
		t.Fatalf("seeding via apply: %v", err)
	}
	var campaignID int64
	for id := range m.campaigns {
		campaignID = id
	}

	bundle, err := Export(ctx, m, campaignID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if bundle.Campaign.Name != "Emberfall" {
		t.Fatalf("unexpected campaign: %+v", bundle.Campaign)
	}
	if len(bundle.Entities) != 2 || len(bundle.Relations) != 1 || len(bundle.Tags) != 1 {
		t.Fatalf("unexpected section counts: %+v", bundle)
	}
	if len(bundle.EntityTags) != 1 || len(bundle.Attributes) != 1 || len(bundle.Posts) != 1 {
		t.Fatalf("unexpected section counts: %+v", bundle)
	}

	encoded, err := EncodeNative(bundle)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// A re-import of the encoded document takes the native path and lands
	// the same records in a fresh campaign.
	reparsed, format, err := Parse(encoded)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if format != FormatNative {
		t.Fatalf("expected native format on re-import, got %q", format)
	}

	m2 := newMemStore()
	stats, err := Apply(ctx, m2, reparsed, 0, ResolutionSkip)
	if err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	if stats.Entities != 2 || stats.Relations != 1 || stats.Tags != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Attributes != 1 || stats.Posts != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestExportMissingCampaign(t *testing.T) {
	m := newMemStore()
	if _, err := Export(context.Background(), m, 42); err == nil {
		t.Fatalf("expected error")
	}
}
