// Package sample embeds a small taxonomy used when no dataset is supplied.
package sample

import (
	_ "embed"

	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
	"github.com/cognicore/kwmap/pkg/kwmap/metrics"
)

//go:embed sample.json
var raw []byte

// Raw returns a copy of the embedded document.
func Raw() []byte {
	return append([]byte(nil), raw...)
}

// Nodes returns the embedded taxonomy with node sizes, counts and averages
// filled in from the keywords beneath them.
func Nodes() []ingest.RawNode {
	doc, err := ingest.Parse(raw)
	if err != nil {
		panic("sample: embedded document does not parse: " + err.Error())
	}
	ds := ingest.NewNormalizer(nil).Normalize(doc.Data)
	return ingest.RawFromTree(metrics.Refresh(ds.Tree))
}
