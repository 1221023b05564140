package gameid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	stampLayout      = "20060102T150405Z"
	suffixLen        = 6
	PrefixGame       = "game"
	PrefixTournament = "tournament"
)

var (
	ulidEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	ulidEntropyMu sync.Mutex
)

// New returns "<prefix>_<UTC stamp>_<suffix>" for the current time.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

func NewAt(prefix string, at time.Time) string {
	ulidEntropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(at), ulidEntropy).String()
	ulidEntropyMu.Unlock()
	suffix := strings.ToLower(id[len(id)-suffixLen:])
	return prefix + "_" + at.UTC().Format(stampLayout) + "_" + suffix
}

// Timestamp recovers the creation time encoded in id.
func Timestamp(id string) (time.Time, bool) {
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return time.Time{}, false
	}
	ts, err := time.Parse(stampLayout, parts[len(parts)-2])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Prefix returns the part of id before the timestamp.
func Prefix(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "_")
}
