package usecase

import (
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/devdash/internal/domain"
)

// Workload bands of the leaderboard.
const (
	WorkloadLow    = "low"
	WorkloadMedium = "medium"
	WorkloadHigh   = "high"
)

// WorkloadBand classifies a reviewer by the number of reviews assigned.
func WorkloadBand(totalReviews int) string {
	switch {
	case totalReviews < 3:
		return WorkloadLow
	case totalReviews < 6:
		return WorkloadMedium
	default:
		return WorkloadHigh
	}
}

type reviewerTally struct {
	id               string
	total            int
	approvals        int
	changesRequested int
	responseTimes    stats.Float64Data
}

// ReviewerLeaderboard ranks reviewers by workload, then by response time.
//
// Response times (1-25h) and the approve/request-changes outcome of each review are
// placeholders drawn from rng; they are not derived from the records. Reviewers with no
// matching Author are dropped.
func ReviewerLeaderboard(prs []domain.PullRequest, authors []domain.Author, rng *rand.Rand) domain.Leaderboard {
	byID := make(map[string]domain.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	tallies := make(map[string]*reviewerTally)
	var order []string
	for _, pr := range prs {
		for _, id := range pr.Reviewers {
			t, ok := tallies[id]
			if !ok {
				t = &reviewerTally{id: id}
				tallies[id] = t
				order = append(order, id)
			}
			t.total++
			t.responseTimes = append(t.responseTimes, rng.Float64()*24+1)
			if rng.Float64() > 0.3 {
				t.approvals++
			} else {
				t.changesRequested++
			}
		}
	}

	board := domain.Leaderboard{Reviewers: make([]domain.ReviewerStats, 0, len(order))}
	for _, id := range order {
		author, ok := byID[id]
		if !ok {
			continue
		}
		t := tallies[id]
		board.Reviewers = append(board.Reviewers, domain.ReviewerStats{
			Author:           author,
			TotalReviews:     t.total,
			Approvals:        t.approvals,
			ChangesRequested: t.changesRequested,
			AvgResponseTime:  mean(t.responseTimes),
			ApprovalRate:     float64(t.approvals) / float64(t.total) * 100,
			Workload:         WorkloadBand(t.total),
		})
	}

	sort.SliceStable(board.Reviewers, func(i, j int) bool {
		a, b := board.Reviewers[i], board.Reviewers[j]
		if a.TotalReviews != b.TotalReviews {
			return a.TotalReviews > b.TotalReviews
		}
		if a.AvgResponseTime != b.AvgResponseTime {
			return a.AvgResponseTime < b.AvgResponseTime
		}
		return a.Author.ID < b.Author.ID
	})

	responseTimes := make(stats.Float64Data, 0, len(board.Reviewers))
	approvalRates := make(stats.Float64Data, 0, len(board.Reviewers))
	for _, r := range board.Reviewers {
		responseTimes = append(responseTimes, r.AvgResponseTime)
		approvalRates = append(approvalRates, r.ApprovalRate)
	}
	board.AvgResponseTime = mean(responseTimes)
	board.AvgApprovalRate = mean(approvalRates)
	return board
}
