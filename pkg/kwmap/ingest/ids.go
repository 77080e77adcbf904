package ingest

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// IDGenerator issues flat record IDs that are unique for the lifetime of the
// process.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator with monotonic entropy.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next returns an ID of the form <type>-<depth>-<ulid>.
func (g *IDGenerator) Next(t taxonomy.Type, depth int) string {
	g.mu.Lock()
	id := ulid.MustNew(ulid.Now(), g.entropy)
	g.mu.Unlock()
	return fmt.Sprintf("%s-%d-%s", t, depth, id)
}
