// Package domain contains the core data structures of the dashboards.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a pull request.
type Status string

const (
	StatusOpen   Status = "open"
	StatusMerged Status = "merged"
	StatusClosed Status = "closed"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusOpen, StatusMerged, StatusClosed}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusOpen, StatusMerged, StatusClosed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// AllRepositories is the repository id that matches every repository.
const AllRepositories = "all"

// Author is static reference data for a PR author or reviewer.
type Author struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// RepositoryOption is an entry of the repository selector.
type RepositoryOption struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// PullRequest is a single pull request record.
type PullRequest struct {
	ID               string     `json:"id" yaml:"id"`
	Title            string     `json:"title" yaml:"title"`
	Author           string     `json:"author" yaml:"author"`
	Repository       string     `json:"repository" yaml:"repository"`
	Status           Status     `json:"status" yaml:"status"`
	CreatedAt        time.Time  `json:"created_at" yaml:"created_at"`
	MergedAt         *time.Time `json:"merged_at,omitempty" yaml:"merged_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
	ReviewTime       float64    `json:"review_time" yaml:"review_time"`
	Size             string     `json:"size" yaml:"size"`
	Labels           []string   `json:"labels" yaml:"labels"`
	Reviewers        []string   `json:"reviewers" yaml:"reviewers"`
	Comments         int        `json:"comments" yaml:"comments"`
	Approvals        int        `json:"approvals" yaml:"approvals"`
	ChangesRequested int        `json:"changes_requested" yaml:"changes_requested"`
}

// FilterSelection is the set of filters applied to the PR collection.
// An empty Authors slice selects every author.
type FilterSelection struct {
	Repository string   `json:"repository"`
	Authors    []string `json:"authors"`
	Statuses   []Status `json:"statuses"`
	DateRange  string   `json:"date_range"`
}

// DefaultSelection returns the selection the dashboard starts with.
func DefaultSelection() FilterSelection {
	return FilterSelection{
		Repository: AllRepositories,
		Authors:    []string{},
		Statuses:   append([]Status(nil), AllStatuses...),
		DateRange:  "last-30-days",
	}
}

// NormalizeAuthors drops blank and repeated author ids, keeping first occurrences.
func NormalizeAuthors(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ToggleAuthor adds the author if missing and removes it otherwise.
func (f *FilterSelection) ToggleAuthor(id string) {
	for i, a := range f.Authors {
		if a == id {
			f.Authors = append(f.Authors[:i:i], f.Authors[i+1:]...)
			return
		}
	}
	f.Authors = append(f.Authors, id)
}

// ToggleStatus adds the status if missing and removes it otherwise.
func (f *FilterSelection) ToggleStatus(s Status) {
	for i, st := range f.Statuses {
		if st == s {
			f.Statuses = append(f.Statuses[:i:i], f.Statuses[i+1:]...)
			return
		}
	}
	f.Statuses = append(f.Statuses, s)
}

// Placeholder values shown in the metrics strip that are not derived from data.
const (
	PlaceholderAvgConflictTime  = 1.8
	PlaceholderApprovalVelocity = 2.3
)

// Metrics holds the summary statistics of a filtered PR set.
// OpenPRs + MergedPRs + ClosedPRs always equals TotalPRs.
type Metrics struct {
	TotalPRs              int     `json:"total_prs"`
	OpenPRs               int     `json:"open_prs"`
	MergedPRs             int     `json:"merged_prs"`
	ClosedPRs             int     `json:"closed_prs"`
	AvgReviewTime         float64 `json:"avg_review_time"`
	MergeSuccessRate      float64 `json:"merge_success_rate"`
	DistinctReviewerCount int     `json:"distinct_reviewer_count"`
	AvgConflictTime       float64 `json:"avg_conflict_time"`
	ApprovalVelocity      float64 `json:"approval_velocity"`
}

// ReviewTimeSummary describes the distribution of review times in hours.
type ReviewTimeSummary struct {
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// ReviewerStats is one row of the reviewer leaderboard.
type ReviewerStats struct {
	Author           Author  `json:"author"`
	TotalReviews     int     `json:"total_reviews"`
	Approvals        int     `json:"approvals"`
	ChangesRequested int     `json:"changes_requested"`
	AvgResponseTime  float64 `json:"avg_response_time"`
	ApprovalRate     float64 `json:"approval_rate"`
	Workload         string  `json:"workload"`
}

// Leaderboard is the ranked reviewer list plus its team-wide averages.
type Leaderboard struct {
	Reviewers       []ReviewerStats `json:"reviewers"`
	AvgResponseTime float64         `json:"avg_response_time"`
	AvgApprovalRate float64         `json:"avg_approval_rate"`
}

// WorkflowStage is one bar of the workflow funnel.
type WorkflowStage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Percentage  int     `json:"percentage"`
	Count       int     `json:"count"`
	Width       float64 `json:"width"`
}

// VolumePoint is one day of the PR volume chart.
type VolumePoint struct {
	Date         string  `json:"date"`
	Opened       int     `json:"opened"`
	Merged       int     `json:"merged"`
	Closed       int     `json:"closed"`
	AvgCycleTime float64 `json:"avg_cycle_time"`
	ReviewTime   float64 `json:"review_time"`
}
