// Package gateway provides the reference data the dashboards are computed over,
// abstracting away whether it comes from the built-in seed or a fixture file.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/devdash/internal/domain"
)

// Source defines the behavior of a gateway for fetching dashboard reference data.
type Source interface {
	FetchAuthors(ctx context.Context) ([]domain.Author, error)
	FetchRepositories(ctx context.Context) ([]domain.RepositoryOption, error)
	FetchPullRequests(ctx context.Context) ([]domain.PullRequest, error)
	FetchRepositoryHealth(ctx context.Context) ([]domain.RepositoryHealth, error)
	FetchAlerts(ctx context.Context) ([]domain.Alert, error)
	FetchTimeline(ctx context.Context) ([]domain.TimelineEvent, error)
}

// Dataset is the full set of reference data. It is also the layout of a YAML fixture.
type Dataset struct {
	Authors          []domain.Author           `yaml:"authors"`
	Repositories     []domain.RepositoryOption `yaml:"repositories"`
	PullRequests     []domain.PullRequest      `yaml:"pull_requests"`
	RepositoryHealth []domain.RepositoryHealth `yaml:"repository_health"`
	Alerts           []domain.Alert            `yaml:"alerts"`
	Timeline         []domain.TimelineEvent    `yaml:"timeline"`
}

// FixtureGateway is the concrete implementation of the Source interface.
// The dataset is loaded once and never mutated, so it is safe for concurrent use.
type FixtureGateway struct {
	data   Dataset
	logger *zap.Logger
}

// NewSeedGateway returns a gateway serving the built-in seed data with timestamps relative to now.
func NewSeedGateway(now time.Time, logger *zap.Logger) *FixtureGateway {
	return &FixtureGateway{data: SeedData(now), logger: logger}
}

// NewFixtureGateway loads a YAML fixture from a local path or an http(s) URL.
// Sections missing from the fixture fall back to the built-in seed.
func NewFixtureGateway(ctx context.Context, location string, now time.Time, client *http.Client, logger *zap.Logger) (*FixtureGateway, error) {
	logger.Debug("loading fixture", zap.String("location", location))
	raw, err := readFixture(ctx, location, client)
	if err != nil {
		return nil, err
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", location, err)
	}
	if err := validate(ds); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", location, err)
	}

	seed := SeedData(now)
	if ds.Authors == nil {
		ds.Authors = seed.Authors
	}
	if ds.Repositories == nil {
		ds.Repositories = seed.Repositories
	}
	if ds.PullRequests == nil {
		ds.PullRequests = seed.PullRequests
	}
	if ds.RepositoryHealth == nil {
		ds.RepositoryHealth = seed.RepositoryHealth
	}
	if ds.Alerts == nil {
		ds.Alerts = seed.Alerts
	}
	if ds.Timeline == nil {
		ds.Timeline = seed.Timeline
	}
	logger.Info("fixture loaded",
		zap.String("location", location),
		zap.Int("pull_requests", len(ds.PullRequests)),
		zap.Int("repositories", len(ds.RepositoryHealth)))
	return &FixtureGateway{data: ds, logger: logger}, nil
}

// WithPullRequests returns a copy of the gateway with extra PR records appended.
func (g *FixtureGateway) WithPullRequests(prs ...domain.PullRequest) *FixtureGateway {
	ds := g.data
	ds.PullRequests = append(append([]domain.PullRequest(nil), g.data.PullRequests...), prs...)
	return &FixtureGateway{data: ds, logger: g.logger}
}

func readFixture(ctx context.Context, location string, client *http.Client) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		raw, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture: %w", err)
		}
		return raw, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fixture request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download fixture: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download fixture: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture body: %w", err)
	}
	return raw, nil
}

func validate(ds Dataset) error {
	seen := make(map[string]struct{}, len(ds.PullRequests))
	for _, pr := range ds.PullRequests {
		if pr.ID == "" {
			return fmt.Errorf("pull request without id")
		}
		if _, dup := seen[pr.ID]; dup {
			return fmt.Errorf("duplicate pull request id %q", pr.ID)
		}
		seen[pr.ID] = struct{}{}
		if _, err := domain.ParseStatus(string(pr.Status)); err != nil {
			return fmt.Errorf("pull request %s: %w", pr.ID, err)
		}
		if pr.ReviewTime < 0 || pr.Comments < 0 || pr.Approvals < 0 || pr.ChangesRequested < 0 {
			return fmt.Errorf("pull request %s: negative counter", pr.ID)
		}
	}
	for _, r := range ds.RepositoryHealth {
		if r.HealthScore < 0 || r.HealthScore > 100 {
			return fmt.Errorf("repository %s: health score %d out of range", r.Name, r.HealthScore)
		}
	}
	return nil
}

func (g *FixtureGateway) FetchAuthors(ctx context.Context) ([]domain.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Debug("fetching authors", zap.Int("count", len(g.data.Authors)))
	return append([]domain.Author(nil), g.data.Authors...), nil
}

func (g *FixtureGateway) FetchRepositories(ctx context.Context) ([]domain.RepositoryOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Debug("fetching repositories", zap.Int("count", len(g.data.Repositories)))
	return append([]domain.RepositoryOption(nil), g.data.Repositories...), nil
}

func (g *FixtureGateway) FetchPullRequests(ctx context.Context) ([]domain.PullRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Debug("fetching pull requests", zap.Int("count", len(g.data.PullRequests)))
	return append([]domain.PullRequest(nil), g.data.PullRequests...), nil
}

func (g *FixtureGateway) FetchRepositoryHealth(ctx context.Context) ([]domain.RepositoryHealth, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Debug("fetching repository health", zap.Int("count", len(g.data.RepositoryHealth)))
	return append([]domain.RepositoryHealth(nil), g.data.RepositoryHealth...), nil
}

func (g *FixtureGateway) FetchAlerts(ctx context.Context) ([]domain.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Debug("fetching alerts", zap.Int("count", len(g.data.Alerts)))
	return append([]domain.Alert(nil), g.data.Alerts...), nil
}

func (g *FixtureGateway) FetchTimeline(ctx context.Context) ([]domain.TimelineEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Debug("fetching timeline", zap.Int("count", len(g.data.Timeline)))
	return append([]domain.TimelineEvent(nil), g.data.Timeline...), nil
}
