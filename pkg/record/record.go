// Package record classifies and parses tab-separated input lines.
//
// Two line shapes are accepted, both with six tab-separated fields:
//
//	edge:       graph_id  source_id  target_id  source_type  relation  target_type
//	membership: graph_id  node_id    type_name  ""           ""        ""
//
// Membership lines name nodes known to belong together (for example a
// previously found quasi-clique) and are used as search seeds. The trailing
// empty fields keep the column count equal to the edge format.
//
// Parsing is purely syntactic; type names are resolved later against a
// [schema.Registry] by the graph builder.
package record

import (
	"strconv"
	"strings"

	"github.com/matzehuels/quasiclique/pkg/errors"
	"github.com/matzehuels/quasiclique/pkg/ids"
)

// NumFields is the column count of every record.
const NumFields = 6

// Kind distinguishes edge lines from membership lines.
type Kind int

const (
	// KindEdge is a six-field edge between a core and a non-core node.
	KindEdge Kind = iota + 1
	// KindMembership names a single node of a seed set.
	KindMembership
)

func (k Kind) String() string {
	switch k {
	case KindEdge:
		return "edge"
	case KindMembership:
		return "membership"
	}
	return "unknown"
}

// Edge is a parsed edge line.
type Edge struct {
	GraphID    ids.GraphID `json:"graph_id"`
	SourceID   ids.NodeID  `json:"source_id"`
	TargetID   ids.NodeID  `json:"target_id"`
	SourceType string      `json:"source_type"`
	Relation   string      `json:"relation"`
	TargetType string      `json:"target_type"`
}

// Membership is a parsed membership line.
type Membership struct {
	GraphID  ids.GraphID `json:"graph_id"`
	NodeID   ids.NodeID  `json:"node_id"`
	TypeName string      `json:"type_name"`
}

// Record is one parsed line. Exactly one of the views is populated, as
// reported by Kind.
type Record struct {
	Kind       Kind
	edge       Edge
	membership Membership
}

// GraphID returns the partition the record belongs to.
func (r Record) GraphID() ids.GraphID {
	if r.Kind == KindMembership {
		return r.membership.GraphID
	}
	return r.edge.GraphID
}

// AsEdge returns the edge view. It fails with [errors.ErrCodeWrongRecordKind]
// when the record is a membership line.
func (r Record) AsEdge() (Edge, error) {
	if r.Kind != KindEdge {
		return Edge{}, errors.New(errors.ErrCodeWrongRecordKind, "record is a %s line, not an edge", r.Kind)
	}
	return r.edge, nil
}

// AsMembership returns the membership view. It fails with
// [errors.ErrCodeWrongRecordKind] when the record is an edge line.
func (r Record) AsMembership() (Membership, error) {
	if r.Kind != KindMembership {
		return Membership{}, errors.New(errors.ErrCodeWrongRecordKind, "record is a %s line, not a membership", r.Kind)
	}
	return r.membership, nil
}

// FromEdge wraps an edge as a Record.
func FromEdge(e Edge) Record { return Record{Kind: KindEdge, edge: e} }

// FromMembership wraps a membership as a Record.
func FromMembership(m Membership) Record { return Record{Kind: KindMembership, membership: m} }

// Parser parses lines into records.
//
// The zero value parses 32-bit identifiers; set LongIDs for 64-bit id spaces.
type Parser struct {
	LongIDs bool
}

// Classify reports the kind of a line without converting identifiers.
func (p Parser) Classify(line string) (Kind, error) {
	fields, err := split(line)
	if err != nil {
		return 0, err
	}
	return classify(fields)
}

// Parse parses one line. Malformed lines fail with [errors.ErrCodeInvalidRecord].
func (p Parser) Parse(line string) (Record, error) {
	fields, err := split(line)
	if err != nil {
		return Record{}, err
	}
	kind, err := classify(fields)
	if err != nil {
		return Record{}, err
	}

	gid, err := p.parseID("graph id", fields[0])
	if err != nil {
		return Record{}, err
	}

	if kind == KindMembership {
		nid, err := p.parseID("node id", fields[1])
		if err != nil {
			return Record{}, err
		}
		return FromMembership(Membership{
			GraphID:  ids.GraphID(gid),
			NodeID:   ids.NodeID(nid),
			TypeName: fields[2],
		}), nil
	}

	src, err := p.parseID("source id", fields[1])
	if err != nil {
		return Record{}, err
	}
	dst, err := p.parseID("target id", fields[2])
	if err != nil {
		return Record{}, err
	}
	return FromEdge(Edge{
		GraphID:    ids.GraphID(gid),
		SourceID:   ids.NodeID(src),
		TargetID:   ids.NodeID(dst),
		SourceType: fields[3],
		Relation:   fields[4],
		TargetType: fields[5],
	}), nil
}

func (p Parser) parseID(what, s string) (int64, error) {
	bits := 32
	if p.LongIDs {
		bits = 64
	}
	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidRecord, err, "%s %q", what, s)
	}
	return v, nil
}

func split(line string) ([]string, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, "\t")
	if len(fields) != NumFields {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "expected %d tab-separated fields, got %d", NumFields, len(fields))
	}
	return fields, nil
}

func classify(fields []string) (Kind, error) {
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	switch {
	case filled == NumFields:
		return KindEdge, nil
	case filled == 3 && fields[0] != "" && fields[1] != "" && fields[2] != "":
		return KindMembership, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidRecord, "line has %d populated fields in an unexpected layout", filled)
}

// Format renders a record back into its tab-separated form.
func Format(r Record) string {
	if r.Kind == KindMembership {
		m := r.membership
		return strings.Join([]string{m.GraphID.String(), m.NodeID.String(), m.TypeName, "", "", ""}, "\t")
	}
	e := r.edge
	return strings.Join([]string{
		e.GraphID.String(), e.SourceID.String(), e.TargetID.String(),
		e.SourceType, e.Relation, e.TargetType,
	}, "\t")
}
