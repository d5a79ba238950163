// Package storage persists votes, commitments and reveals in a
// prefixed key-value store. The following prefixes are used:
//   - 'v/' for votes
//   - 'c/' for commitments (key: voteID + "/" + voter)
//   - 'r/' for reveals (key: voteID + "/" + voter)
//
// The (vote, voter) uniqueness of commitments and reveals is enforced
// here, inside a single write transaction, so callers never need a
// read-then-write dance.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
)

var (
	votePrefix       = []byte("v/")
	commitmentPrefix = []byte("c/")
	revealPrefix     = []byte("r/")
)

var (
	// ErrNotFound is returned when the requested artifact does not
	// exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when inserting a vote whose ID is
	// already taken.
	ErrDuplicateID = errors.New("duplicate vote id")
	// ErrAlreadyCommitted is returned when a voter commits twice to
	// the same vote.
	ErrAlreadyCommitted = errors.New("voter already committed")
	// ErrAlreadyRevealed is returned when a voter reveals twice for
	// the same vote.
	ErrAlreadyRevealed = errors.New("voter already revealed")
)

// Storage wraps the key-value database with the vote store contract.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance over the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeUnixMicro
	opts.TimeTag = cbor.EncTagRequired
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic(err)
	}
}

func encodeArtifact(a any) ([]byte, error) {
	data, err := encMode.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return data, nil
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// pairKey builds the key of a per-voter artifact. Vote IDs come from a
// URL-safe alphabet without '/', so the key cannot collide across
// votes regardless of the voter string.
func pairKey(voteID, voter string) []byte {
	return []byte(voteID + "/" + voter)
}

func votePairPrefix(voteID string) []byte {
	return []byte(voteID + "/")
}
