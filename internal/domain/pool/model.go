package pool

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedRoundRange = errors.New("malformed round range")
	ErrNonNegativeWeights  = errors.New("scoring weights must not be negative")
)

// RoundRange restricts which rounds of a season count toward a pool.
type RoundRange struct {
	Start int
	End   int
}

// RuleSet stores a pool's scoring weights and optional round scope.
// Scoring is a pure function of (RuleSet, actual result, prediction):
// the highest qualifying tier wins and tiers are never additive.
type RuleSet struct {
	ExactPoints int
	DiffPoints  int
	SignPoints  int
	Rounds      *RoundRange
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		ExactPoints: 5,
		DiffPoints:  3,
		SignPoints:  1,
	}
}

func (r RuleSet) Validate() error {
	if r.ExactPoints < 0 || r.DiffPoints < 0 || r.SignPoints < 0 {
		return fmt.Errorf("%w: exact=%d diff=%d sign=%d", ErrNonNegativeWeights, r.ExactPoints, r.DiffPoints, r.SignPoints)
	}
	if r.Rounds == nil {
		return nil
	}
	if r.Rounds.Start <= 0 || r.Rounds.End <= 0 {
		return fmt.Errorf("%w: rounds must be greater than zero", ErrMalformedRoundRange)
	}
	if r.Rounds.Start > r.Rounds.End {
		return fmt.Errorf("%w: start=%d end=%d", ErrMalformedRoundRange, r.Rounds.Start, r.Rounds.End)
	}
	return nil
}

// InScope reports whether a round counts toward this pool. A pool with no
// round filter scores every round of its season.
func (r RuleSet) InScope(round int) bool {
	if r.Rounds == nil {
		return true
	}
	return round >= r.Rounds.Start && round <= r.Rounds.End
}

// Score computes prediction points for a known result. Precedence is
// exact > diff > sign > none, each tier exclusive.
func (r RuleSet) Score(predHome, predAway, actualHome, actualAway int) int {
	if predHome == actualHome && predAway == actualAway {
		return r.ExactPoints
	}
	if predHome-predAway == actualHome-actualAway {
		return r.DiffPoints
	}
	if signOf(predHome, predAway) == signOf(actualHome, actualAway) {
		return r.SignPoints
	}
	return 0
}

func signOf(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}

// Pool is a tenant-scoped prediction contest over a season.
type Pool struct {
	ID        string
	TenantID  string
	Slug      string
	SeasonID  string
	RuleSet   RuleSet
	CreatedAt time.Time
	RetiredAt *time.Time
}

func (p Pool) Retired() bool {
	return p.RetiredAt != nil
}
