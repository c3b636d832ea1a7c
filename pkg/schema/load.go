package schema

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/quasiclique/pkg/errors"
)

// File is the on-disk form of a schema.
//
// TOML:
//
//	core_type = "author"
//
//	[[relations]]
//	source = "author"
//	relation = "published_at"
//	target = "conference"
//
// YAML uses the same keys. The tab-separated form has one triple per line
// ("author<TAB>published_at<TAB>conference") and cannot set core_type.
type File struct {
	CoreType  string   `toml:"core_type" yaml:"core_type"`
	Relations []Triple `toml:"relations" yaml:"relations"`
}

// Load reads a schema file. The format is chosen by extension: .toml, .yaml
// or .yml, anything else is parsed as tab-separated triples. Lines starting
// with '#' and blank lines are skipped in the tab-separated form.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "read schema %s", path)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes schema data in the format named by ext (".toml", ".yaml",
// ".yml"; anything else is tab-separated).
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "decode toml schema")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "decode yaml schema")
		}
	default:
		triples, err := parseTSV(data)
		if err != nil {
			return nil, err
		}
		f.Relations = triples
	}
	if len(f.Relations) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "schema declares no relations")
	}
	return &f, nil
}

func parseTSV(data []byte) ([]Triple, error) {
	var out []Triple
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, errors.New(errors.ErrCodeSchema, "line %d: expected 3 tab-separated fields, got %d", n, len(fields))
		}
		out = append(out, Triple{Source: fields[0], Relation: fields[1], Target: fields[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "scan schema")
	}
	return out, nil
}

// Registry builds a [Registry] from the file. A non-empty coreType overrides
// the file's core_type.
func (f *File) Registry(coreType string) (*Registry, error) {
	if coreType == "" {
		coreType = f.CoreType
	}
	return NewRegistry(f.Relations, coreType)
}
