package schema

import (
	"slices"

	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

// Triple declares that a node of type Source may connect to a node of type
// Target through relation Relation.
type Triple struct {
	Source   string `toml:"source" yaml:"source" json:"source"`
	Relation string `toml:"relation" yaml:"relation" json:"relation"`
	Target   string `toml:"target" yaml:"target" json:"target"`
}

// TypeEntry describes one non-core node type.
type TypeEntry struct {
	ID   ids.NodeTypeID
	Name string
	// Relations is the sorted set of relation kinds legal between a core node
	// and a node of this type.
	Relations []ids.EdgeTypeID
	// MaxRelations is len(Relations), kept separately because the scorer reads
	// it on every candidate.
	MaxRelations int
}

// Allows reports whether rel may connect a core node to this type.
func (t TypeEntry) Allows(rel ids.EdgeTypeID) bool {
	_, ok := slices.BinarySearch(t.Relations, rel)
	return ok
}

// Registry resolves type and relation names declared by a schema.
// It is read-only after [NewRegistry] returns and safe for concurrent use.
type Registry struct {
	coreType      string
	types         map[string]*TypeEntry
	byID          []*TypeEntry // index = NodeTypeID; slot 0 is the core type
	relations     map[string]ids.EdgeTypeID
	relationNames []string
}

// NewRegistry builds a registry from schema triples.
//
// Triples whose source is not coreType are ignored: they describe relations
// the search never walks. NewRegistry returns an [errors.ErrCodeSchema] error
// when coreType or any triple field is empty or malformed, or when no triple
// starts at coreType.
func NewRegistry(triples []Triple, coreType string) (*Registry, error) {
	if err := errors.ValidateName("core type", coreType); err != nil {
		return nil, err
	}

	r := &Registry{
		coreType:  coreType,
		types:     make(map[string]*TypeEntry),
		byID:      []*TypeEntry{{ID: ids.CoreTypeID, Name: coreType}},
		relations: make(map[string]ids.EdgeTypeID),
	}

	for i, t := range triples {
		if err := t.validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "triple %d", i)
		}
		if t.Source != coreType {
			continue
		}
		if t.Target == coreType {
			return nil, errors.New(errors.ErrCodeSchema,
				"triple %d: core type %q cannot be a target (graph must be bipartite)", i, coreType)
		}

		rel, ok := r.relations[t.Relation]
		if !ok {
			rel = ids.EdgeTypeID(len(r.relationNames))
			r.relations[t.Relation] = rel
			r.relationNames = append(r.relationNames, t.Relation)
		}

		entry, ok := r.types[t.Target]
		if !ok {
			entry = &TypeEntry{ID: ids.NodeTypeID(len(r.byID)), Name: t.Target}
			r.types[t.Target] = entry
			r.byID = append(r.byID, entry)
		}
		if !entry.Allows(rel) {
			entry.Relations = append(entry.Relations, rel)
			slices.Sort(entry.Relations)
			entry.MaxRelations = len(entry.Relations)
		}
	}

	if len(r.types) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "no relation declared for core type %q", coreType)
	}

	core := r.byID[ids.CoreTypeID]
	for id := range r.relationNames {
		core.Relations = append(core.Relations, ids.EdgeTypeID(id))
	}
	core.MaxRelations = len(core.Relations)

	return r, nil
}

func (t Triple) validate() error {
	if err := errors.ValidateName("source type", t.Source); err != nil {
		return err
	}
	if err := errors.ValidateName("relation", t.Relation); err != nil {
		return err
	}
	return errors.ValidateName("target type", t.Target)
}

// CoreType returns the configured core type name.
func (r *Registry) CoreType() string { return r.coreType }

// IsCore reports whether name is the core type.
func (r *Registry) IsCore(name string) bool { return name == r.coreType }

// Resolve returns the entry for a non-core target type. It fails with an
// [errors.ErrCodeSchema] error when name was never declared as a target of the
// core type.
func (r *Registry) Resolve(name string) (TypeEntry, error) {
	entry, ok := r.types[name]
	if !ok {
		return TypeEntry{}, errors.New(errors.ErrCodeSchema,
			"type %q is not a declared target of core type %q", name, r.coreType)
	}
	return *entry, nil
}

// MaxRelations returns the number of distinct relations declared between the
// core type and name.
func (r *Registry) MaxRelations(name string) (int, error) {
	entry, err := r.Resolve(name)
	if err != nil {
		return 0, err
	}
	return entry.MaxRelations, nil
}

// MaxRelationsByID is [Registry.MaxRelations] keyed by type id. Unknown ids
// return 0.
func (r *Registry) MaxRelationsByID(id ids.NodeTypeID) int {
	if id <= ids.CoreTypeID || int(id) >= len(r.byID) {
		return 0
	}
	return r.byID[id].MaxRelations
}

// RelationID returns the id of a relation name.
func (r *Registry) RelationID(name string) (ids.EdgeTypeID, bool) {
	id, ok := r.relations[name]
	return id, ok
}

// RelationName returns the name of a relation id.
func (r *Registry) RelationName(id ids.EdgeTypeID) (string, bool) {
	if id < 0 || int(id) >= len(r.relationNames) {
		return "", false
	}
	return r.relationNames[id], true
}

// TypeName returns the name of a type id, including the core type.
func (r *Registry) TypeName(id ids.NodeTypeID) (string, bool) {
	if id < 0 || int(id) >= len(r.byID) {
		return "", false
	}
	return r.byID[id].Name, true
}

// TargetTypes returns all non-core type entries ordered by id.
func (r *Registry) TargetTypes() []TypeEntry {
	out := make([]TypeEntry, 0, len(r.byID)-1)
	for _, e := range r.byID[1:] {
		out = append(out, *e)
	}
	return out
}

// Relations returns all relation names ordered by id.
func (r *Registry) Relations() []string {
	return slices.Clone(r.relationNames)
}

// Allows reports whether rel may connect a core node to a node of type id.
func (r *Registry) Allows(id ids.NodeTypeID, rel ids.EdgeTypeID) bool {
	if id <= ids.CoreTypeID || int(id) >= len(r.byID) {
		return false
	}
	return r.byID[id].Allows(rel)
}
