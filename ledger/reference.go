package ledger

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const refPrefix = "TXN"

// RefSource issues transfer references: a TXN-prefixed ULID. ULIDs are
// time-ordered and the monotonic entropy keeps references issued within the
// same millisecond distinct; the primary key on transfers.ref backs this up.
type RefSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewRefSource() *RefSource {
	return &RefSource{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (r *RefSource) Next(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return refPrefix + ulid.MustNew(ulid.Timestamp(now), r.entropy).String()
}
