// Package referral computes downline statistics over the referral
// forest. The walks are read-only, depth-first and carry a visited set:
// the graph is expected to be acyclic, but a corrupted edge must fail
// loudly instead of recursing forever.
package referral

import (
	"context"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"
)

// Repository is the slice of the user repository the referral walks need.
type Repository interface {
	GetByID(id uint) (*models.User, error)
	GetReferrals(userID uint) ([]*models.User, error)
}

// Stats bundles the four downline counters for one user.
type Stats struct {
	TotalTeam       int `json:"total_team"`
	ActiveTeam      int `json:"active_team"`
	TotalReferrals  int `json:"total_referrals"`
	ActiveReferrals int `json:"active_referrals"`
}

type Service interface {
	TotalTeam(ctx context.Context, userID uint) (int, error)
	ActiveTeam(ctx context.Context, userID uint) (int, error)
	TotalReferrals(ctx context.Context, userID uint) (int, error)
	ActiveReferrals(ctx context.Context, userID uint) (int, error)
	Stats(ctx context.Context, userID uint) (Stats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// TotalTeam counts all transitive descendants of the user.
func (s *service) TotalTeam(ctx context.Context, userID uint) (int, error) {
	total, _, err := s.walk(userID)
	return total, err
}

// ActiveTeam counts transitive descendants with status Active. The user
// never counts toward their own team.
func (s *service) ActiveTeam(ctx context.Context, userID uint) (int, error) {
	_, active, err := s.walk(userID)
	return active, err
}

// TotalReferrals counts direct referrals only.
func (s *service) TotalReferrals(ctx context.Context, userID uint) (int, error) {
	children, err := s.repo.GetReferrals(userID)
	if err != nil {
		return 0, err
	}
	return len(children), nil
}

// ActiveReferrals counts direct referrals with status Active.
func (s *service) ActiveReferrals(ctx context.Context, userID uint) (int, error) {
	children, err := s.repo.GetReferrals(userID)
	if err != nil {
		return 0, err
	}
	active := 0
	for _, child := range children {
		if child.IsActive() {
			active++
		}
	}
	return active, nil
}

// Stats computes all four counters with a single subtree walk.
func (s *service) Stats(ctx context.Context, userID uint) (Stats, error) {
	children, err := s.repo.GetReferrals(userID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalReferrals: len(children)}
	for _, child := range children {
		if child.IsActive() {
			stats.ActiveReferrals++
		}
	}

	total, active, err := s.walk(userID)
	if err != nil {
		return Stats{}, err
	}
	stats.TotalTeam = total
	stats.ActiveTeam = active
	return stats, nil
}

// walk runs an iterative DFS over the subtree rooted at userID and
// returns (descendants, active descendants). Revisiting a node means
// the referred_by edges form a cycle; that aborts the walk.
func (s *service) walk(userID uint) (int, int, error) {
	visited := map[uint]struct{}{userID: {}}
	stack := []uint{userID}
	total, active := 0, 0

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.repo.GetReferrals(current)
		if err != nil {
			return 0, 0, err
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				return 0, 0, domainerrors.ErrCycleDetected
			}
			visited[child.ID] = struct{}{}
			total++
			if child.IsActive() {
				active++
			}
			stack = append(stack, child.ID)
		}
	}
	return total, active, nil
}
