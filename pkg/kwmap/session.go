package kwmap

import (
	"github.com/cognicore/kwmap/pkg/kwmap/ingest"
	"github.com/cognicore/kwmap/pkg/kwmap/search"
)

// Status is what the presentation layer should render.
type Status int

const (
	// StatusLoading means no dataset has been loaded yet.
	StatusLoading Status = iota
	// StatusError means the last ingest failed.
	StatusError
	// StatusNoResults means the applied filters exclude everything.
	StatusNoResults
	// StatusReady means there is something to show.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusNoResults:
		return "no results"
	case StatusReady:
		return "ready"
	}
	return "unknown"
}

// Session is the in-memory state of one explorer view. The search box keeps
// two slots: LiveInput follows every keystroke and CommittedQuery is what the
// filters see. The caller decides when to Commit, typically after a debounce.
type Session struct {
	Dataset *ingest.Dataset
	Err     error
	// Generation increments on every successful load.
	Generation int

	LiveInput      string
	CommittedQuery string
}

// Load replaces the dataset and clears any previous error.
func (s *Session) Load(ds *ingest.Dataset) {
	s.Dataset = ds
	s.Err = nil
	s.Generation++
}

// Fail records an ingest failure. The previous dataset is discarded.
func (s *Session) Fail(err error) {
	s.Dataset = nil
	s.Err = err
}

// Ingest parses raw with e and loads the result, or records the failure.
func (s *Session) Ingest(e *Explorer, raw []byte) error {
	ds, err := e.Ingest(raw)
	if err != nil {
		s.Fail(err)
		return err
	}
	s.Load(ds)
	return nil
}

// Type updates the live input without touching the committed query.
func (s *Session) Type(input string) {
	s.LiveInput = input
}

// Commit makes the live input the query the filters use.
func (s *Session) Commit() {
	s.CommittedQuery = s.LiveInput
}

// Terms parses the committed query.
func (s *Session) Terms() []search.Term {
	return search.ParseTerms(s.CommittedQuery)
}

// Status reports the session state given the number of results the current
// filters produced. Exactly one state applies.
func (s *Session) Status(resultCount int) Status {
	switch {
	case s.Err != nil:
		return StatusError
	case s.Dataset == nil:
		return StatusLoading
	case resultCount == 0:
		return StatusNoResults
	}
	return StatusReady
}
