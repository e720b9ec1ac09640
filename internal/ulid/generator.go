// Package ulid generates the identifiers of stored documents, courses and
// uploaded media.
package ulid

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     io.Reader
	entropyOnce sync.Once

	mu        sync.RWMutex
	generator = DefaultGenerator
)

// DefaultEntropy returns a monotonic entropy source safe for concurrent use.
func DefaultEntropy() io.Reader {
	entropyOnce.Do(func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rng, 0),
		}
	})
	return entropy
}

// ValidID reports whether id is a canonical ULID string.
func ValidID(id string) bool {
	parsed, err := ulid.ParseStrict(id)
	return err == nil && parsed.String() == id
}

// GenerateID returns a new identifier.
func GenerateID() string {
	mu.RLock()
	defer mu.RUnlock()
	return generator()
}

// Time returns the creation time encoded in id.
func Time(id string) (time.Time, bool) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(parsed.Time()), true
}

func DefaultGenerator() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), DefaultEntropy()).String()
}

func ResetGenerator() {
	mu.Lock()
	defer mu.Unlock()
	generator = DefaultGenerator
}

// MockGenerator makes GenerateID return mockValue until ResetGenerator is
// called.
func MockGenerator(mockValue string) {
	mu.Lock()
	defer mu.Unlock()
	generator = func() string {
		return mockValue
	}
}
