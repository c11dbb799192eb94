package usecase

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/gateway"
)

func TestReviewerLeaderboard(t *testing.T) {
	seed := gateway.SeedData(testNow)
	prs := append(seedPRs(), domain.PullRequest{ID: "pr-x", Status: domain.StatusOpen, Reviewers: []string{"ghost"}})

	board := ReviewerLeaderboard(prs, seed.Authors, rand.New(rand.NewSource(1)))

	require.Len(t, board.Reviewers, 5, "reviewers without an author record are dropped")
	assert.Equal(t, "mike-johnson", board.Reviewers[0].Author.ID)
	assert.Equal(t, 3, board.Reviewers[0].TotalReviews)
	assert.Equal(t, WorkloadMedium, board.Reviewers[0].Workload)

	totals := map[string]int{}
	for i, r := range board.Reviewers {
		totals[r.Author.ID] = r.TotalReviews
		assert.Equal(t, r.TotalReviews, r.Approvals+r.ChangesRequested)
		assert.GreaterOrEqual(t, r.AvgResponseTime, 1.0)
		assert.Less(t, r.AvgResponseTime, 25.0)
		assert.InDelta(t, float64(r.Approvals)/float64(r.TotalReviews)*100, r.ApprovalRate, 1e-9)
		if i > 0 {
			prev := board.Reviewers[i-1]
			assert.GreaterOrEqual(t, prev.TotalReviews, r.TotalReviews)
			if prev.TotalReviews == r.TotalReviews {
				assert.LessOrEqual(t, prev.AvgResponseTime, r.AvgResponseTime)
			}
		}
	}
	assert.Equal(t, map[string]int{
		"mike-johnson":   3,
		"alex-rodriguez": 2,
		"sarah-chen":     2,
		"david-kim":      1,
		"lisa-wang":      1,
	}, totals)
	assert.Greater(t, board.AvgResponseTime, 0.0)
}

func TestReviewerLeaderboard_Deterministic(t *testing.T) {
	seed := gateway.SeedData(testNow)
	first := ReviewerLeaderboard(seed.PullRequests, seed.Authors, rand.New(rand.NewSource(9)))
	second := ReviewerLeaderboard(seed.PullRequests, seed.Authors, rand.New(rand.NewSource(9)))
	assert.Equal(t, first, second)
}

func TestReviewerLeaderboard_Empty(t *testing.T) {
	board := ReviewerLeaderboard(nil, nil, rand.New(rand.NewSource(1)))
	assert.Empty(t, board.Reviewers)
	assert.Zero(t, board.AvgResponseTime)
	assert.Zero(t, board.AvgApprovalRate)
}

func TestWorkloadBand(t *testing.T) {
	assert.Equal(t, WorkloadLow, WorkloadBand(0))
	assert.Equal(t, WorkloadLow, WorkloadBand(2))
	assert.Equal(t, WorkloadMedium, WorkloadBand(3))
	assert.Equal(t, WorkloadMedium, WorkloadBand(5))
	assert.Equal(t, WorkloadHigh, WorkloadBand(6))
}
