// Package usecase contains the business logic of the dashboards.
package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/gateway"
)

// Aggregator is the use case for building dashboard reports.
// It fetches reference data from the gateway and runs it through the pure aggregation functions.
type Aggregator struct {
	source          gateway.Source
	logger          *zap.Logger
	seed            int64
	now             func() time.Time
	alerts          *AlertBook
	prRefresher     *Refresher
	healthRefresher *Refresher
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSeed sets the seed of the placeholder series generators.
func WithSeed(seed int64) Option {
	return func(a *Aggregator) { a.seed = seed }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(source gateway.Source, logger *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		source: source,
		logger: logger,
		seed:   1,
		now:    time.Now,
		alerts: NewAlertBook(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.prRefresher = NewRefresher(a.now, logger.Named("prs"))
	a.healthRefresher = NewRefresher(a.now, logger.Named("health"))
	return a
}

// PRRefresher returns the "last updated" timer of the pull-request dashboard.
func (a *Aggregator) PRRefresher() *Refresher { return a.prRefresher }

// HealthRefresher returns the "last updated" timer of the repository health dashboard.
func (a *Aggregator) HealthRefresher() *Refresher { return a.healthRefresher }

type prData struct {
	authors      []domain.Author
	repositories []domain.RepositoryOption
	pullRequests []domain.PullRequest
}

// PullRequests builds the pull-request analytics report for the selection.
func (a *Aggregator) PullRequests(ctx context.Context, sel domain.FilterSelection) (*PRReport, error) {
	a.logger.Debug("Usecase: loading pull request data...")

	var data prData
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		data.authors, err = a.source.FetchAuthors(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		data.repositories, err = a.source.FetchRepositories(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		data.pullRequests, err = a.source.FetchPullRequests(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load pull request data: %w", err)
	}

	filtered := FilterPullRequests(data.pullRequests, sel)
	report := &PRReport{
		Selection:    sel,
		Metrics:      ComputeMetrics(filtered),
		ReviewTimes:  SummarizeReviewTimes(filtered),
		PullRequests: filtered,
		Leaderboard:  ReviewerLeaderboard(data.pullRequests, data.authors, rand.New(rand.NewSource(a.seed))),
		Funnel:       WorkflowFunnel(len(data.pullRequests)),
		Volume:       VolumeSeries(a.prRefresher.LastUpdated(), rand.New(rand.NewSource(a.seed+1))),
		Authors:      data.authors,
		Repositories: data.repositories,
		LastUpdated:  a.prRefresher.LastUpdated(),
	}

	a.logger.Info("Usecase: pull request report built",
		zap.Int("total", len(data.pullRequests)),
		zap.Int("filtered", report.Metrics.TotalPRs))
	return report, nil
}

type healthData struct {
	repositories []domain.RepositoryHealth
	alerts       []domain.Alert
	timeline     []domain.TimelineEvent
}

// Health builds the repository health report for the query.
func (a *Aggregator) Health(ctx context.Context, q HealthQuery) (*HealthReport, error) {
	if err := ValidateThreshold(q.Threshold); err != nil {
		return nil, err
	}
	severity, err := domain.ParseSeverityFilter(q.Severity)
	if err != nil {
		return nil, err
	}
	q.Severity = severity
	if q.EventType == "" {
		q.EventType = domain.EventTypeAll
	}
	eventType, err := domain.ParseEventTypeFilter(q.EventType)
	if err != nil {
		return nil, err
	}
	q.EventType = eventType
	if q.Sort.Field == "" {
		q.Sort.Field = SortHealthScore
	}
	field, err := ParseSortField(string(q.Sort.Field))
	if err != nil {
		return nil, err
	}
	q.Sort.Field = field
	if q.Sort.Direction != Ascending {
		q.Sort.Direction = Descending
	}

	a.logger.Debug("Usecase: loading repository health data...")
	var data healthData
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		data.repositories, err = a.source.FetchRepositoryHealth(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		data.alerts, err = a.source.FetchAlerts(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		data.timeline, err = a.source.FetchTimeline(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load repository health data: %w", err)
	}

	sorted := SortRepositories(data.repositories, q.Sort)
	views := make([]RepositoryView, 0, len(sorted))
	for _, r := range sorted {
		views = append(views, RepositoryView{RepositoryHealth: r, Band: HealthBand(r.HealthScore, q.Threshold)})
	}

	alerts := a.alerts.Apply(data.alerts)
	feed := FilterAlerts(alerts, q.Severity)

	report := &HealthReport{
		Query:          q,
		Summary:        SummarizeHealth(data.repositories, q.Threshold),
		Repositories:   views,
		CriticalAlerts: a.alerts.Visible(CriticalAlerts(alerts)),
		Alerts:         feed,
		Unacknowledged: a.alerts.Unacknowledged(feed),
		Timeline:       FilterTimeline(data.timeline, q.EventType),
		LastUpdated:    a.healthRefresher.LastUpdated(),
	}

	a.logger.Info("Usecase: repository health report built",
		zap.Int("repositories", len(views)),
		zap.Int("critical_alerts", len(report.CriticalAlerts)))
	return report, nil
}

// AcknowledgeAlert acknowledges alert id for the rest of the session.
func (a *Aggregator) AcknowledgeAlert(ctx context.Context, id int) error {
	if _, err := a.findAlert(ctx, id); err != nil {
		return err
	}
	a.alerts.Acknowledge(id)
	a.logger.Info("Usecase: alert acknowledged", zap.Int("id", id))
	return nil
}

// DismissAlert hides alert id from the critical banner.
func (a *Aggregator) DismissAlert(ctx context.Context, id int) error {
	if _, err := a.findAlert(ctx, id); err != nil {
		return err
	}
	a.alerts.Dismiss(id)
	a.logger.Info("Usecase: alert dismissed", zap.Int("id", id))
	return nil
}

// DismissCriticalAlerts clears the critical banner and returns the ids it dismissed.
func (a *Aggregator) DismissCriticalAlerts(ctx context.Context) ([]int, error) {
	alerts, err := a.source.FetchAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	banner := a.alerts.Visible(CriticalAlerts(a.alerts.Apply(alerts)))
	a.alerts.DismissAll(banner)

	ids := make([]int, 0, len(banner))
	for _, al := range banner {
		ids = append(ids, al.ID)
	}
	a.logger.Info("Usecase: critical alerts dismissed", zap.Ints("ids", ids))
	return ids, nil
}

func (a *Aggregator) findAlert(ctx context.Context, id int) (domain.Alert, error) {
	alerts, err := a.source.FetchAlerts(ctx)
	if err != nil {
		return domain.Alert{}, fmt.Errorf("failed to load alerts: %w", err)
	}
	for _, al := range alerts {
		if al.ID == id {
			return al, nil
		}
	}
	return domain.Alert{}, fmt.Errorf("%w: %d", domain.ErrUnknownAlert, id)
}
