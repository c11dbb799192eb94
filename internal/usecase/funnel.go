package usecase

import (
	"math"

	"github.com/naka-gawa/devdash/internal/domain"
)

// minStageWidth keeps small funnel bars visible.
const minStageWidth = 8.0

var workflowStages = []domain.WorkflowStage{
	{ID: "draft", Name: "Draft", Description: "PRs in draft state", Percentage: 15},
	{ID: "ready-for-review", Name: "Ready for Review", Description: "PRs waiting for initial review", Percentage: 25},
	{ID: "in-review", Name: "In Review", Description: "PRs currently being reviewed", Percentage: 30},
	{ID: "changes-requested", Name: "Changes Requested", Description: "PRs requiring modifications", Percentage: 15},
	{ID: "approved", Name: "Approved", Description: "PRs approved and ready to merge", Percentage: 10},
	{ID: "merged", Name: "Merged", Description: "Successfully merged PRs", Percentage: 5},
}

// WorkflowFunnel splits a PR count over the fixed workflow stages.
// Stage counts are a fixed share of the total, not derived from PR state.
func WorkflowFunnel(totalPRs int) []domain.WorkflowStage {
	stages := make([]domain.WorkflowStage, len(workflowStages))
	sum := 0
	for i, s := range workflowStages {
		s.Count = int(math.Floor(float64(totalPRs) * float64(s.Percentage) / 100))
		sum += s.Count
		stages[i] = s
	}
	for i := range stages {
		width := minStageWidth
		if sum > 0 {
			width = math.Max(float64(stages[i].Count)/float64(sum)*100, minStageWidth)
		}
		stages[i].Width = width
	}
	return stages
}
