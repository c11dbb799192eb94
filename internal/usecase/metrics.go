package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/devdash/internal/domain"
)

// FilterPullRequests returns the records matching the selection, preserving input order.
// A record is kept when its repository matches (or the selection is "all"), its author is
// selected (or no author is selected) and its status is one of the selected statuses.
func FilterPullRequests(all []domain.PullRequest, sel domain.FilterSelection) []domain.PullRequest {
	authors := make(map[string]struct{}, len(sel.Authors))
	for _, a := range sel.Authors {
		authors[a] = struct{}{}
	}
	statuses := make(map[domain.Status]struct{}, len(sel.Statuses))
	for _, s := range sel.Statuses {
		statuses[s] = struct{}{}
	}

	filtered := make([]domain.PullRequest, 0, len(all))
	for _, pr := range all {
		if sel.Repository != domain.AllRepositories && pr.Repository != sel.Repository {
			continue
		}
		if len(authors) > 0 {
			if _, ok := authors[pr.Author]; !ok {
				continue
			}
		}
		if _, ok := statuses[pr.Status]; !ok {
			continue
		}
		filtered = append(filtered, pr)
	}
	return filtered
}

// ComputeMetrics derives the summary statistics of a filtered PR set.
// It is defined for every input; an empty set yields zero-valued metrics.
func ComputeMetrics(filtered []domain.PullRequest) domain.Metrics {
	m := domain.Metrics{
		TotalPRs:         len(filtered),
		AvgConflictTime:  domain.PlaceholderAvgConflictTime,
		ApprovalVelocity: domain.PlaceholderApprovalVelocity,
	}

	reviewTimes := make(stats.Float64Data, 0, len(filtered))
	reviewers := make(map[string]struct{})
	for _, pr := range filtered {
		switch pr.Status {
		case domain.StatusOpen:
			m.OpenPRs++
		case domain.StatusMerged:
			m.MergedPRs++
		case domain.StatusClosed:
			m.ClosedPRs++
		}
		reviewTimes = append(reviewTimes, pr.ReviewTime)
		for _, r := range pr.Reviewers {
			reviewers[r] = struct{}{}
		}
	}

	m.AvgReviewTime = mean(reviewTimes)
	if m.TotalPRs > 0 {
		m.MergeSuccessRate = float64(m.MergedPRs) / float64(m.TotalPRs) * 100
	}
	m.DistinctReviewerCount = len(reviewers)
	return m
}

// SummarizeReviewTimes returns the median and 90th percentile review time of the set.
// The percentile interpolates linearly between the closest ranks.
func SummarizeReviewTimes(filtered []domain.PullRequest) domain.ReviewTimeSummary {
	data := make(stats.Float64Data, 0, len(filtered))
	for _, pr := range filtered {
		data = append(data, pr.ReviewTime)
	}
	switch len(data) {
	case 0:
		return domain.ReviewTimeSummary{}
	case 1:
		return domain.ReviewTimeSummary{Median: data[0], P90: data[0]}
	}

	var summary domain.ReviewTimeSummary
	if median, err := data.Median(); err == nil {
		summary.Median = median
	}
	if p90, err := data.Percentile(90); err == nil {
		summary.P90 = p90
	}
	return summary
}

// mean is stats.Mean with empty input mapped to 0.
func mean(data stats.Float64Data) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := data.Mean()
	if err != nil {
		return 0
	}
	return m
}
