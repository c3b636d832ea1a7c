package schema

import (
	"testing"

	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

func TestNewRegistry_TypeIDsAndMaxRelations(t *testing.T) {
	triples := []Triple{
		{"author", "published_at", "conference"},
		{"author", "organized", "conference"},
		{"author", "published_at", "journal"},
		{"author", "attended", "conference"},
	}
	reg, err := NewRegistry(triples, "author")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	conf, err := reg.Resolve("conference")
	if err != nil {
		t.Fatalf("Resolve(conference) error = %v", err)
	}
	if conf.ID != 1 {
		t.Errorf("conference id = %d, want 1", conf.ID)
	}
	if conf.MaxRelations != 3 {
		t.Errorf("conference MaxRelations = %d, want 3", conf.MaxRelations)
	}

	journal, err := reg.Resolve("journal")
	if err != nil {
		t.Fatalf("Resolve(journal) error = %v", err)
	}
	if journal.ID != 2 {
		t.Errorf("journal id = %d, want 2", journal.ID)
	}
	if n, _ := reg.MaxRelations("journal"); n != 1 {
		t.Errorf("MaxRelations(journal) = %d, want 1", n)
	}
	if reg.MaxRelationsByID(conf.ID) != 3 {
		t.Errorf("MaxRelationsByID(conference) = %d, want 3", reg.MaxRelationsByID(conf.ID))
	}
}

func TestNewRegistry_RelationIDs(t *testing.T) {
	reg, err := NewRegistry([]Triple{
		{"author", "published_at", "conference"},
		{"author", "reviewed_for", "conference"},
		{"author", "published_at", "journal"},
	}, "author")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	pub, ok := reg.RelationID("published_at")
	if !ok || pub != 0 {
		t.Errorf("RelationID(published_at) = %d, %v; want 0, true", pub, ok)
	}
	rev, ok := reg.RelationID("reviewed_for")
	if !ok || rev != 1 {
		t.Errorf("RelationID(reviewed_for) = %d, %v; want 1, true", rev, ok)
	}
	if _, ok := reg.RelationID("cited"); ok {
		t.Error("RelationID(cited) should not exist")
	}

	journal, _ := reg.Resolve("journal")
	if !journal.Allows(pub) {
		t.Error("journal should allow published_at")
	}
	if journal.Allows(rev) {
		t.Error("journal should not allow reviewed_for")
	}
	if name, _ := reg.RelationName(rev); name != "reviewed_for" {
		t.Errorf("RelationName(1) = %q", name)
	}
}

func TestNewRegistry_IgnoresOtherSources(t *testing.T) {
	reg, err := NewRegistry([]Triple{
		{"author", "published_at", "conference"},
		{"conference", "located_in", "city"},
	}, "author")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if _, err := reg.Resolve("city"); !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Resolve(city) error = %v, want SCHEMA_ERROR", err)
	}
	if len(reg.TargetTypes()) != 1 {
		t.Errorf("TargetTypes() len = %d, want 1", len(reg.TargetTypes()))
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name     string
		triples  []Triple
		coreType string
	}{
		{"empty core type", []Triple{{"author", "r", "venue"}}, ""},
		{"no triples", nil, "author"},
		{"no triple from core", []Triple{{"venue", "r", "city"}}, "author"},
		{"empty relation", []Triple{{"author", "", "venue"}}, "author"},
		{"tab in target", []Triple{{"author", "r", "ven\tue"}}, "author"},
		{"core as target", []Triple{{"author", "cites", "author"}}, "author"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.triples, tt.coreType)
			if !errors.Is(err, errors.ErrCodeSchema) {
				t.Errorf("NewRegistry() error = %v, want SCHEMA_ERROR", err)
			}
		})
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	reg, _ := NewRegistry([]Triple{{"author", "published_at", "conference"}}, "author")
	if _, err := reg.Resolve("author"); !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Resolve(core type) error = %v, want SCHEMA_ERROR", err)
	}
	if _, err := reg.MaxRelations("workshop"); !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("MaxRelations(unknown) error = %v, want SCHEMA_ERROR", err)
	}
	if reg.MaxRelationsByID(ids.CoreTypeID) != 0 {
		t.Error("MaxRelationsByID(core) should be 0")
	}
	if reg.MaxRelationsByID(99) != 0 {
		t.Error("MaxRelationsByID(unknown) should be 0")
	}
	if name, ok := reg.TypeName(ids.CoreTypeID); !ok || name != "author" {
		t.Errorf("TypeName(0) = %q, %v", name, ok)
	}
	if !reg.IsCore("author") || reg.IsCore("conference") {
		t.Error("IsCore mismatch")
	}
}

func TestRegistry_DuplicateTriples(t *testing.T) {
	reg, err := NewRegistry([]Triple{
		{"author", "published_at", "conference"},
		{"author", "published_at", "conference"},
	}, "author")
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if n, _ := reg.MaxRelations("conference"); n != 1 {
		t.Errorf("MaxRelations(conference) = %d, want 1", n)
	}
}
