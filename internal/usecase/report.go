package usecase

import (
	"time"

	"github.com/naka-gawa/devdash/internal/domain"
)

// PRReport is everything the pull-request analytics dashboard shows.
type PRReport struct {
	Selection    domain.FilterSelection    `json:"selection"`
	Metrics      domain.Metrics            `json:"metrics"`
	ReviewTimes  domain.ReviewTimeSummary  `json:"review_times"`
	PullRequests []domain.PullRequest      `json:"pull_requests"`
	Leaderboard  domain.Leaderboard        `json:"leaderboard"`
	Funnel       []domain.WorkflowStage    `json:"funnel"`
	Volume       []domain.VolumePoint      `json:"volume"`
	Authors      []domain.Author           `json:"authors"`
	Repositories []domain.RepositoryOption `json:"repositories"`
	LastUpdated  time.Time                 `json:"last_updated"`
}

// HealthQuery holds the controls of the repository health dashboard.
type HealthQuery struct {
	Environment string    `json:"environment"`
	Threshold   int       `json:"threshold"`
	Severity    string    `json:"severity"`
	EventType   string    `json:"event_type"`
	Sort        TableSort `json:"sort"`
}

// DefaultHealthQuery matches the dashboard's initial controls.
func DefaultHealthQuery() HealthQuery {
	return HealthQuery{
		Environment: "production",
		Threshold:   85,
		Severity:    domain.SeverityAll,
		EventType:   domain.EventTypeAll,
		Sort:        DefaultTableSort(),
	}
}

// RepositoryView is a health record with its display band.
type RepositoryView struct {
	domain.RepositoryHealth
	Band domain.Band `json:"band"`
}

// HealthReport is everything the repository health dashboard shows.
type HealthReport struct {
	Query          HealthQuery            `json:"query"`
	Summary        domain.HealthSummary   `json:"summary"`
	Repositories   []RepositoryView       `json:"repositories"`
	CriticalAlerts []domain.Alert         `json:"critical_alerts"`
	Alerts         []domain.Alert         `json:"alerts"`
	Unacknowledged int                    `json:"unacknowledged"`
	Timeline       []domain.TimelineEvent `json:"timeline"`
	LastUpdated    time.Time              `json:"last_updated"`
}
