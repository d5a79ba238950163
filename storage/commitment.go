package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vocdoni/commit-reveal/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// AddCommitment inserts a commitment. The (vote, voter) uniqueness
// check and the insert happen in the same write transaction, so
// concurrent commits for one voter cannot both succeed.
func (s *Storage) AddCommitment(c *types.Commitment) error {
	if c == nil || c.VoteID == "" || c.Voter == "" {
		return fmt.Errorf("nil or incomplete commitment")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), commitmentPrefix)
	key := pairKey(c.VoteID, c.Voter)
	if _, err := wTx.Get(key); err == nil {
		wTx.Discard()
		return ErrAlreadyCommitted
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		wTx.Discard()
		return fmt.Errorf("check commitment: %w", err)
	}
	data, err := encodeArtifact(c)
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

// Commitment retrieves the commitment of a voter for a vote. It
// returns ErrNotFound if absent.
func (s *Storage) Commitment(voteID, voter string) (*types.Commitment, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, commitmentPrefix)
	data, err := rd.Get(pairKey(voteID, voter))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get commitment: %w", err)
	}
	c := &types.Commitment{}
	if err := decodeArtifact(data, c); err != nil {
		return nil, fmt.Errorf("decode commitment: %w", err)
	}
	return c, nil
}

// ListCommitments returns all commitments of a vote ordered by
// created_at ascending, ties broken by voter so the order is stable.
func (s *Storage) ListCommitments(voteID string) ([]*types.Commitment, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, commitmentPrefix)
	var commitments []*types.Commitment
	var decodeErr error
	if err := rd.Iterate(votePairPrefix(voteID), func(_, data []byte) bool {
		c := &types.Commitment{}
		if err := decodeArtifact(data, c); err != nil {
			decodeErr = fmt.Errorf("decode commitment: %w", err)
			return false
		}
		commitments = append(commitments, c)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate commitments: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	sort.Slice(commitments, func(i, j int) bool {
		if !commitments[i].CreatedAt.Equal(commitments[j].CreatedAt) {
			return commitments[i].CreatedAt.Before(commitments[j].CreatedAt)
		}
		return commitments[i].Voter < commitments[j].Voter
	})
	return commitments, nil
}
