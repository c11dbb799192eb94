package domain

import (
	"fmt"
	"strings"
	"time"
)

// RepositoryHealth is the health record shown by the repository health dashboard.
// HealthScore is a fixed 0-100 composite indicator.
type RepositoryHealth struct {
	ID               int    `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Status           string `json:"status" yaml:"status"`
	SyncStatus       string `json:"sync_status" yaml:"sync_status"`
	OpenIssues       int    `json:"open_issues" yaml:"open_issues"`
	StalePRs         int    `json:"stale_prs" yaml:"stale_prs"`
	CICDHealth       string `json:"cicd_health" yaml:"cicd_health"`
	HealthScore      int    `json:"health_score" yaml:"health_score"`
	LastCommit       string `json:"last_commit" yaml:"last_commit"`
	DeploymentStatus string `json:"deployment_status" yaml:"deployment_status"`
	Coverage         int    `json:"coverage" yaml:"coverage"`
}

// Severity classifies alerts and timeline events.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
	SeverityError    Severity = "error"
)

// SeverityAll disables severity filtering.
const SeverityAll = "all"

// ParseSeverityFilter validates the severity filter of the alert feed.
func ParseSeverityFilter(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case SeverityAll, string(SeverityCritical), string(SeverityWarning), string(SeverityInfo):
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
}

// Timeline event types.
const (
	EventDeployment        = "deployment"
	EventCIFailure         = "ci_failure"
	EventSyncIssue         = "sync_issue"
	EventHealthImprovement = "health_improvement"
)

// EventTypeAll disables timeline filtering.
const EventTypeAll = "all"

// ParseEventTypeFilter validates the event type filter of the status timeline.
func ParseEventTypeFilter(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case EventTypeAll, EventDeployment, EventCIFailure, EventSyncIssue, EventHealthImprovement:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
	}
}

// Alert is an entry of the alert feed.
type Alert struct {
	ID           int       `json:"id" yaml:"id"`
	Severity     Severity  `json:"severity" yaml:"severity"`
	Repository   string    `json:"repository" yaml:"repository"`
	Message      string    `json:"message" yaml:"message"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Acknowledged bool      `json:"acknowledged" yaml:"acknowledged"`
	Category     string    `json:"category" yaml:"category"`
}

// TimelineEvent is an entry of the status timeline.
type TimelineEvent struct {
	ID         int       `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Type       string    `json:"type" yaml:"type"`
	Repository string    `json:"repository" yaml:"repository"`
	Message    string    `json:"message" yaml:"message"`
	Severity   Severity  `json:"severity" yaml:"severity"`
}

// Band is the color band a health score falls into.
type Band string

const (
	BandSuccess Band = "success"
	BandWarning Band = "warning"
	BandError   Band = "error"
)

// HealthSummary aggregates the health records shown on the dashboard.
type HealthSummary struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	AvgHealthScore float64        `json:"avg_health_score"`
	BelowThreshold []string       `json:"below_threshold"`
}
