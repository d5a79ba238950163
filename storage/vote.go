package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vocdoni/commit-reveal/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// AddVote inserts a new vote. It fails with ErrDuplicateID if the
// vote ID already exists.
func (s *Storage) AddVote(v *types.Vote) error {
	if v == nil || v.ID == "" {
		return fmt.Errorf("nil or incomplete vote")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), votePrefix)
	if _, err := wTx.Get([]byte(v.ID)); err == nil {
		wTx.Discard()
		return ErrDuplicateID
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		wTx.Discard()
		return fmt.Errorf("check vote id: %w", err)
	}
	data, err := encodeArtifact(v)
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := wTx.Set([]byte(v.ID), data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// Vote retrieves a vote by ID. It returns ErrNotFound if absent.
func (s *Storage) Vote(id string) (*types.Vote, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, votePrefix)
	data, err := rd.Get([]byte(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vote: %w", err)
	}
	v := &types.Vote{}
	if err := decodeArtifact(data, v); err != nil {
		return nil, fmt.Errorf("decode vote: %w", err)
	}
	return v, nil
}

// updateVote applies fn to the stored vote inside one write
// transaction.
func (s *Storage) updateVote(id string, fn func(*types.Vote)) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), votePrefix)
	data, err := wTx.Get([]byte(id))
	if err != nil {
		wTx.Discard()
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get vote: %w", err)
	}
	v := &types.Vote{}
	if err := decodeArtifact(data, v); err != nil {
		wTx.Discard()
		return fmt.Errorf("decode vote: %w", err)
	}
	fn(v)
	updated, err := encodeArtifact(v)
	if err != nil {
		wTx.Discard()
		return err
	}
	if err := wTx.Set([]byte(id), updated); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// UpdateVoteStatus sets the advisory status cache of a vote. It does
// not check transition validity; the engine does.
func (s *Storage) UpdateVoteStatus(id string, status types.VoteStatus) error {
	return s.updateVote(id, func(v *types.Vote) {
		v.Status = status
	})
}

// UpdateVoteResults stores the computed results of a vote.
func (s *Storage) UpdateVoteResults(id string, results *types.VoteResults) error {
	return s.updateVote(id, func(v *types.Vote) {
		v.Results = results
	})
}

// CompleteVote stores the computed results and marks the vote
// completed in a single write transaction, so readers never observe
// results on a vote that is not yet completed.
func (s *Storage) CompleteVote(id string, results *types.VoteResults) error {
	return s.updateVote(id, func(v *types.Vote) {
		v.Results = results
		v.Status = types.StatusCompleted
	})
}

// ListVotes returns all votes matching the filter, ordered by
// created_at descending with ties broken by ID. A nil filter matches
// everything.
func (s *Storage) ListVotes(filter *types.VoteFilter) ([]*types.Vote, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, votePrefix)
	var votes []*types.Vote
	var decodeErr error
	if err := rd.Iterate(nil, func(_, data []byte) bool {
		v := &types.Vote{}
		if err := decodeArtifact(data, v); err != nil {
			decodeErr = fmt.Errorf("decode vote: %w", err)
			return false
		}
		if filter != nil {
			if filter.Status != "" && v.Status != filter.Status {
				return true
			}
			if filter.Creator != "" && v.Creator != filter.Creator {
				return true
			}
		}
		votes = append(votes, v)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	sort.Slice(votes, func(i, j int) bool {
		if !votes[i].CreatedAt.Equal(votes[j].CreatedAt) {
			return votes[i].CreatedAt.After(votes[j].CreatedAt)
		}
		return votes[i].ID < votes[j].ID
	})
	return votes, nil
}

// DeleteVote removes a vote and cascades to its commitments and
// reveals. Used by operational tooling only.
func (s *Storage) DeleteVote(id string) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	for _, prefix := range [][]byte{commitmentPrefix, revealPrefix} {
		rd := prefixeddb.NewPrefixedReader(s.db, prefix)
		var keys [][]byte
		if err := rd.Iterate(votePairPrefix(id), func(k, _ []byte) bool {
			key := append(votePairPrefix(id), k...)
			keyCopy := make([]byte, len(key))
			copy(keyCopy, key)
			keys = append(keys, keyCopy)
			return true
		}); err != nil {
			return fmt.Errorf("iterate artifacts: %w", err)
		}
		wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
		for _, key := range keys {
			if err := wTx.Delete(key); err != nil {
				wTx.Discard()
				return err
			}
		}
		if err := wTx.Commit(); err != nil {
			return err
		}
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), votePrefix)
	if err := wTx.Delete([]byte(id)); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}
