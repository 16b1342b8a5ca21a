package api

import (
	"context"
	"errors"
	"fmt"

	"skywatch/internal/votes"
)

// VoteService exposes vote operations in their wire shape. Both the daemon's
// HTTP handlers and the CLI commands consume this layer so the two surfaces
// cannot drift apart.
type VoteService struct {
	store *votes.Store
}

// NewVoteService wraps a voting store.
func NewVoteService(store *votes.Store) *VoteService {
	return &VoteService{store: store}
}

// Update overwrites the tally for transientID with a reaction snapshot and
// returns the refreshed status.
func (s *VoteService) Update(ctx context.Context, transientID string, reactions map[string]int) (VoteStatus, error) {
	if s == nil || s.store == nil {
		return VoteStatus{}, errors.New("voting store unavailable")
	}
	if err := s.store.UpdateVoteCounts(ctx, transientID, reactions); err != nil {
		return VoteStatus{}, err
	}
	return s.Describe(ctx, transientID)
}

// Describe returns the vote status for one transient.
func (s *VoteService) Describe(ctx context.Context, transientID string) (VoteStatus, error) {
	if s == nil || s.store == nil {
		return VoteStatus{}, errors.New("voting store unavailable")
	}
	tally, err := s.store.TransientVotes(ctx, transientID)
	if err != nil {
		return VoteStatus{}, err
	}
	status := VoteStatus{
		TransientID:   transientID,
		Votes:         tallyView(tally),
		PriorityScore: tally.PriorityScore(),
	}
	classification, err := s.store.ClassificationFor(ctx, transientID)
	if err != nil {
		if !errors.Is(err, votes.ErrUnknownTransient) {
			return VoteStatus{}, fmt.Errorf("load classification: %w", err)
		}
		status.Classification = string(votes.CategoryUnclassified)
		return status, nil
	}
	status.Classification = string(classification.Label)
	status.Confidence = classification.Confidence
	return status, nil
}

// Priority returns the follow-up queue, truncated to limit when limit > 0.
func (s *VoteService) Priority(ctx context.Context, limit int) ([]PriorityEntry, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("voting store unavailable")
	}
	var (
		queue []votes.Ranked
		err   error
	)
	if limit > 0 {
		queue, err = s.store.TopTransients(ctx, limit)
	} else {
		queue, err = s.store.PriorityQueue(ctx)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]PriorityEntry, 0, len(queue))
	for i, ranked := range queue {
		entries = append(entries, PriorityEntry{
			Rank:        i + 1,
			TransientID: ranked.TransientID,
			Score:       ranked.Score,
			Votes:       tallyView(ranked.Tally),
		})
	}
	return entries, nil
}

func tallyView(t votes.Tally) TallyView {
	return TallyView{
		AGN:         t.AGN,
		Interesting: t.Interesting,
		Star:        t.Star,
		Junk:        t.Junk,
		Total:       t.Total(),
	}
}
