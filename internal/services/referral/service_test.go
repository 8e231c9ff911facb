package referral

import (
	"context"
	"testing"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"

	"github.com/stretchr/testify/assert"
)

// fakeGraph is an in-memory referral forest keyed by referrer ID.
type fakeGraph struct {
	users    map[uint]*models.User
	children map[uint][]uint
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		users:    make(map[uint]*models.User),
		children: make(map[uint][]uint),
	}
}

func (g *fakeGraph) add(id uint, status string, referredBy *uint) {
	g.users[id] = &models.User{ID: id, Status: status, ReferredByID: referredBy}
	if referredBy != nil {
		g.children[*referredBy] = append(g.children[*referredBy], id)
	}
}

func (g *fakeGraph) GetByID(id uint) (*models.User, error) {
	return g.users[id], nil
}

func (g *fakeGraph) GetReferrals(userID uint) ([]*models.User, error) {
	var out []*models.User
	for _, childID := range g.children[userID] {
		out = append(out, g.users[childID])
	}
	return out, nil
}

func ref(id uint) *uint { return &id }

func TestReferralService_Chain(t *testing.T) {
	// a -> b -> c, everyone active
	g := newFakeGraph()
	g.add(1, models.UserStatusActive, nil)
	g.add(2, models.UserStatusActive, ref(1))
	g.add(3, models.UserStatusActive, ref(2))

	s := NewService(g)
	ctx := context.Background()

	total, err := s.TotalTeam(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)

	active, err := s.ActiveTeam(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, active)

	directs, err := s.TotalReferrals(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, directs)

	activeDirects, err := s.ActiveReferrals(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, activeDirects)
}

func TestReferralService_InactiveDescendantsExcludedFromActive(t *testing.T) {
	g := newFakeGraph()
	g.add(1, models.UserStatusActive, nil)
	g.add(2, models.UserStatusActive, ref(1))
	g.add(3, models.UserStatusInActive, ref(1))
	g.add(4, models.UserStatusInActive, ref(2))

	s := NewService(g)
	stats, err := s.Stats(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, Stats{
		TotalTeam:       3,
		ActiveTeam:      1,
		TotalReferrals:  2,
		ActiveReferrals: 1,
	}, stats)
}

func TestReferralService_SelfNotCounted(t *testing.T) {
	g := newFakeGraph()
	g.add(1, models.UserStatusActive, nil)

	s := NewService(g)
	stats, err := s.Stats(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestReferralService_CycleDetected(t *testing.T) {
	// Corrupted edges: 1 -> 2 -> 3 -> 1
	g := newFakeGraph()
	g.add(1, models.UserStatusActive, nil)
	g.add(2, models.UserStatusActive, ref(1))
	g.add(3, models.UserStatusActive, ref(2))
	g.children[3] = append(g.children[3], 1)

	s := NewService(g)

	_, err := s.TotalTeam(context.Background(), 1)
	assert.ErrorIs(t, err, domainerrors.ErrCycleDetected)

	_, err = s.Stats(context.Background(), 1)
	assert.ErrorIs(t, err, domainerrors.ErrCycleDetected)
}
