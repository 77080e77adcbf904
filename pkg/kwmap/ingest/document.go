// Package ingest turns raw taxonomy documents into the canonical tree and the
// per-type flat lists that the filters operate on.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// Document is the top-level input shape.
type Document struct {
	Data       []RawNode   `json:"data"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

// Statistics describes a directory build. It is carried through unchanged.
type Statistics struct {
	TotalFiles          int      `json:"total_files"`
	ProcessedFiles      int      `json:"processed_files"`
	ErrorFiles          int      `json:"error_files"`
	SuccessRate         string   `json:"success_rate"`
	StructureVariations []string `json:"structure_variations"`
}

// RawNode is a node as it appears in input documents. Type may be empty, in
// which case it is inferred during normalization.
type RawNode struct {
	Name          string        `json:"name"`
	Type          taxonomy.Type `json:"type,omitempty"`
	Size          Number        `json:"size"`
	TotalKeywords Number        `json:"totalKeywords"`
	TotalClusters Number        `json:"totalClusters"`
	AverageKD     Number        `json:"averageKD"`
	AverageCPC    Number        `json:"averageCPC"`
	Metadata      *RawMetadata  `json:"metadata,omitempty"`
	Children      []RawNode     `json:"children,omitempty"`
	Keywords      []RawKeyword  `json:"keywords,omitempty"`
}

// RawMetadata mirrors taxonomy.Metadata with lenient numbers.
type RawMetadata struct {
	CentroidKeywords string `json:"centroid_keywords"`
	TfidfKeywords    string `json:"tfidf_keywords"`
	ClusterSize      Number `json:"cluster_size"`
	DiversitySamples string `json:"keyword_diversity_samples"`
}

// RawKeyword is a keyword leaf as it appears in input documents. A nil
// difficulty or CPC was null or absent.
type RawKeyword struct {
	Keyword           string  `json:"keyword"`
	SearchVolume      Number  `json:"searchVolume"`
	KeywordDifficulty *Number `json:"keywordDifficulty"`
	CPC               *Number `json:"cpc"`
}

// Number decodes JSON numbers, numeric strings (thousands separators allowed)
// and null. Any other value decodes to 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(parseLenient(s))
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// Int returns n truncated to an int.
func (n Number) Int() int { return int(n) }

// optional unpacks a nullable number.
func optional(n *Number) (float64, bool) {
	if n == nil {
		return 0, false
	}
	return n.Float(), true
}

func numberPtr(v float64) *Number {
	n := Number(v)
	return &n
}

func parseLenient(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseError reports input that does not have the document shape.
type ParseError struct {
	Msg    string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid taxonomy document at byte %d: %s", e.Offset, e.Msg)
	}
	return "invalid taxonomy document: " + e.Msg
}

// Unwrap exposes internalerr.ErrParse and the underlying decoder error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{internalerr.ErrParse}
	}
	return []error{internalerr.ErrParse, e.Err}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes a taxonomy document. A missing or null data field yields an
// empty document.
func Parse(raw []byte) (Document, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Document{}, &ParseError{Msg: "input is empty"}
	}
	if trimmed[0] != '{' {
		return Document{}, &ParseError{Msg: "top-level value must be an object with a data field"}
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, describe(err)
	}
	if err := checkNodeTypes(doc.Data, nil); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// checkNodeTypes rejects nodes tagged with the keyword leaf type.
func checkNodeTypes(nodes []RawNode, ancestors []string) error {
	for i := range nodes {
		n := &nodes[i]
		if n.Type != 0 && !n.Type.IsNode() {
			path := strings.Join(append(ancestors[:len(ancestors):len(ancestors)], n.Name), taxonomy.HierarchySeparator)
			return &ParseError{Msg: fmt.Sprintf("node %q: %s is not a node type", path, n.Type)}
		}
		if err := checkNodeTypes(n.Children, append(ancestors[:len(ancestors):len(ancestors)], n.Name)); err != nil {
			return err
		}
	}
	return nil
}

func describe(err error) *ParseError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return &ParseError{Msg: syntaxErr.Error(), Offset: syntaxErr.Offset, Err: err}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "document"
		}
		return &ParseError{
			Msg:    fmt.Sprintf("field %s: expected %s, got %s", field, typeErr.Type, typeErr.Value),
			Offset: typeErr.Offset,
			Err:    err,
		}
	}
	return &ParseError{Msg: err.Error(), Err: err}
}
