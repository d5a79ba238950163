package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vocdoni/commit-reveal/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// AddReveal inserts a reveal. Uniqueness per (vote, voter) is enforced
// in the same write transaction, mirroring AddCommitment.
func (s *Storage) AddReveal(r *types.Reveal) error {
	if r == nil || r.VoteID == "" || r.Voter == "" {
		return fmt.Errorf("nil or incomplete reveal")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), revealPrefix)
	key := pairKey(r.VoteID, r.Voter)
	if _, err := wTx.Get(key); err == nil {
		wTx.Discard()
		return ErrAlreadyRevealed
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		wTx.Discard()
		return fmt.Errorf("check reveal: %w", err)
	}
	data, err := encodeArtifact(r)
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// Reveal retrieves the reveal of a voter for a vote. It returns
// ErrNotFound if absent.
func (s *Storage) Reveal(voteID, voter string) (*types.Reveal, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, revealPrefix)
	data, err := rd.Get(pairKey(voteID, voter))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reveal: %w", err)
	}
	r := &types.Reveal{}
	if err := decodeArtifact(data, r); err != nil {
		return nil, fmt.Errorf("decode reveal: %w", err)
	}
	return r, nil
}

// ListReveals returns all reveals of a vote ordered by created_at
// ascending, ties broken by voter.
func (s *Storage) ListReveals(voteID string) ([]*types.Reveal, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, revealPrefix)
	var reveals []*types.Reveal
	var decodeErr error
	if err := rd.Iterate(votePairPrefix(voteID), func(_, data []byte) bool {
		r := &types.Reveal{}
		if err := decodeArtifact(data, r); err != nil {
			decodeErr = fmt.Errorf("decode reveal: %w", err)
			return false
		}
		reveals = append(reveals, r)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate reveals: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	sort.Slice(reveals, func(i, j int) bool {
		if !reveals[i].CreatedAt.Equal(reveals[j].CreatedAt) {
			return reveals[i].CreatedAt.Before(reveals[j].CreatedAt)
		}
		return reveals[i].Voter < reveals[j].Voter
	})
	return reveals, nil
}
