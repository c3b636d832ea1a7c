package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/quasiclique/pkg/errors"
)

const tomlSchema = `
core_type = "author"

[[relations]]
source = "author"
relation = "published_at"
target = "conference"

[[relations]]
source = "author"
relation = "reviewed_for"
target = "conference"
`

const yamlSchema = `
core_type: author
relations:
  - source: author
    relation: published_at
    target: journal
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name      string
		file      string
		content   string
		wantCore  string
		wantCount int
	}{
		{"toml", "schema.toml", tomlSchema, "author", 2},
		{"yaml", "schema.yaml", yamlSchema, "author", 1},
		{"yml", "schema.yml", yamlSchema, "author", 1},
		{"tsv", "schema.tsv", "# comment\nauthor\tpublished_at\tconference\n\nauthor\tcited\tarticle\n", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			f, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if f.CoreType != tt.wantCore {
				t.Errorf("CoreType = %q, want %q", f.CoreType, tt.wantCore)
			}
			if len(f.Relations) != tt.wantCount {
				t.Errorf("len(Relations) = %d, want %d", len(f.Relations), tt.wantCount)
			}
		})
	}
}

func TestFile_Registry(t *testing.T) {
	f, err := Parse([]byte(tomlSchema), ".toml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	reg, err := f.Registry("")
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if n, _ := reg.MaxRelations("conference"); n != 2 {
		t.Errorf("MaxRelations(conference) = %d, want 2", n)
	}

	if _, err := f.Registry("venue"); !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Registry(venue) error = %v, want SCHEMA_ERROR", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"bad toml", "core_type = ", ".toml"},
		{"bad yaml", "relations: [", ".yaml"},
		{"tsv wrong field count", "author\tpublished_at\n", ".tsv"},
		{"empty", "", ".tsv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.ext); !errors.Is(err, errors.ErrCodeSchema) {
				t.Errorf("Parse() error = %v, want SCHEMA_ERROR", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Load() error = %v, want SCHEMA_ERROR", err)
	}
}
