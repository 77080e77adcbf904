// Package taxonomy defines the keyword-taxonomy data model shared by every
// stage of the pipeline: pillars, parent topics, subtopics, clusters and the
// keywords attached to clusters.
package taxonomy

import (
	"fmt"
	"strings"
)

// Type tags a node level. The zero value is not a valid type.
type Type int

const (
	Pillar Type = iota + 1
	Parent
	Subtopic
	Cluster
	// Keywords tags keyword leaves in flat lists and type selections.
	Keywords
)

// AllTypes lists every type from broadest to most granular.
var AllTypes = []Type{Pillar, Parent, Subtopic, Cluster, Keywords}

// String returns the lowercase tag used in documents.
func (t Type) String() string {
	switch t {
	case Pillar:
		return "pillar"
	case Parent:
		return "parent"
	case Subtopic:
		return "subtopic"
	case Cluster:
		return "cluster"
	case Keywords:
		return "keywords"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Label returns a display label for table headings.
func (t Type) Label() string {
	switch t {
	case Pillar:
		return "Pillar"
	case Parent:
		return "Parent Topic"
	case Subtopic:
		return "Subtopic"
	case Cluster:
		return "Cluster"
	case Keywords:
		return "Keyword"
	}
	return t.String()
}

// Valid reports whether t is one of the five known types.
func (t Type) Valid() bool {
	return t >= Pillar && t <= Keywords
}

// IsNode reports whether t can tag a tree node. Keywords only tags leaves.
func (t Type) IsNode() bool {
	return t >= Pillar && t <= Cluster
}

// ParseType resolves a tag case-insensitively. "keyword" is accepted as an
// alias of "keywords".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pillar":
		return Pillar, nil
	case "parent":
		return Parent, nil
	case "subtopic":
		return Subtopic, nil
	case "cluster":
		return Cluster, nil
	case "keywords", "keyword":
		return Keywords, nil
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// MarshalText implements encoding.TextMarshaler. The zero type marshals as
// an empty tag.
func (t Type) MarshalText() ([]byte, error) {
	if t == 0 {
		return []byte{}, nil
	}
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid node type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty tag leaves the
// type unset.
func (t *Type) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*t = 0
		return nil
	}
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TypeSet maps each type to its selected flag. Missing entries are unselected.
type TypeSet map[Type]bool

// AllSelected returns a set with every type selected.
func AllSelected() TypeSet {
	set := make(TypeSet, len(AllTypes))
	for _, t := range AllTypes {
		set[t] = true
	}
	return set
}

// SelectOnly returns a set with exactly the given types selected.
func SelectOnly(types ...Type) TypeSet {
	set := make(TypeSet, len(AllTypes))
	for _, t := range AllTypes {
		set[t] = false
	}
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Has reports whether t is selected.
func (s TypeSet) Has(t Type) bool {
	return s[t]
}

// With returns a copy of s with t set to on.
func (s TypeSet) With(t Type, on bool) TypeSet {
	out := make(TypeSet, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[t] = on
	return out
}
