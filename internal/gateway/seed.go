package gateway

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/naka-gawa/devdash/internal/domain"
)

const day = 24 * time.Hour

// SeedData returns the built-in reference data. Timestamps are relative to now.
func SeedData(now time.Time) Dataset {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	agoPtr := func(d time.Duration) *time.Time {
		t := ago(d)
		return &t
	}

	return Dataset{
		Authors: []domain.Author{
			{ID: "sarah-chen", Name: "Sarah Chen", Avatar: "https://randomuser.me/api/portraits/women/32.jpg"},
			{ID: "mike-johnson", Name: "Mike Johnson", Avatar: "https://randomuser.me/api/portraits/men/45.jpg"},
			{ID: "alex-rodriguez", Name: "Alex Rodriguez", Avatar: "https://randomuser.me/api/portraits/men/28.jpg"},
			{ID: "emily-davis", Name: "Emily Davis", Avatar: "https://randomuser.me/api/portraits/women/41.jpg"},
			{ID: "david-kim", Name: "David Kim", Avatar: "https://randomuser.me/api/portraits/men/33.jpg"},
			{ID: "lisa-wang", Name: "Lisa Wang", Avatar: "https://randomuser.me/api/portraits/women/29.jpg"},
		},
		Repositories: []domain.RepositoryOption{
			{ID: domain.AllRepositories, Name: "All Repositories"},
			{ID: "frontend-app", Name: "frontend-app"},
			{ID: "backend-api", Name: "backend-api"},
			{ID: "mobile-app", Name: "mobile-app"},
			{ID: "data-pipeline", Name: "data-pipeline"},
			{ID: "infrastructure", Name: "infrastructure"},
		},
		PullRequests: []domain.PullRequest{
			{
				ID: "pr-1", Title: "Implement user authentication system",
				Author: "sarah-chen", Repository: "frontend-app", Status: domain.StatusOpen,
				CreatedAt: ago(2 * day), ReviewTime: 4.2, Size: "large",
				Labels:    []string{"feature", "authentication"},
				Reviewers: []string{"mike-johnson", "alex-rodriguez"},
				Comments:  12, Approvals: 1, ChangesRequested: 0,
			},
			{
				ID: "pr-2", Title: "Fix memory leak in data processing",
				Author: "mike-johnson", Repository: "backend-api", Status: domain.StatusMerged,
				CreatedAt: ago(5 * day), MergedAt: agoPtr(3 * day), ReviewTime: 2.1, Size: "medium",
				Labels:    []string{"bugfix", "performance"},
				Reviewers: []string{"sarah-chen", "david-kim"},
				Comments:  8, Approvals: 2, ChangesRequested: 1,
			},
			{
				ID: "pr-3", Title: "Add mobile responsive design",
				Author: "emily-davis", Repository: "frontend-app", Status: domain.StatusOpen,
				CreatedAt: ago(1 * day), ReviewTime: 1.5, Size: "large",
				Labels:    []string{"feature", "ui/ux"},
				Reviewers: []string{"lisa-wang", "alex-rodriguez"},
				Comments:  6, Approvals: 0, ChangesRequested: 1,
			},
			{
				ID: "pr-4", Title: "Update API documentation",
				Author: "david-kim", Repository: "backend-api", Status: domain.StatusMerged,
				CreatedAt: ago(7 * day), MergedAt: agoPtr(6 * day), ReviewTime: 0.8, Size: "small",
				Labels:    []string{"documentation"},
				Reviewers: []string{"mike-johnson"},
				Comments:  3, Approvals: 1, ChangesRequested: 0,
			},
			{
				ID: "pr-5", Title: "Implement CI/CD pipeline improvements",
				Author: "alex-rodriguez", Repository: "infrastructure", Status: domain.StatusClosed,
				CreatedAt: ago(10 * day), ClosedAt: agoPtr(8 * day), ReviewTime: 3.2, Size: "large",
				Labels:    []string{"infrastructure", "ci/cd"},
				Reviewers: []string{"sarah-chen", "mike-johnson"},
				Comments:  15, Approvals: 0, ChangesRequested: 2,
			},
		},
		RepositoryHealth: []domain.RepositoryHealth{
			{ID: 1, Name: "frontend-app", Status: "healthy", SyncStatus: "synced", OpenIssues: 12, StalePRs: 2, CICDHealth: "passing", HealthScore: 92, LastCommit: "2 hours ago", DeploymentStatus: "deployed", Coverage: 87},
			{ID: 2, Name: "backend-api", Status: "warning", SyncStatus: "syncing", OpenIssues: 8, StalePRs: 5, CICDHealth: "failing", HealthScore: 76, LastCommit: "4 hours ago", DeploymentStatus: "pending", Coverage: 82},
			{ID: 3, Name: "mobile-app", Status: "critical", SyncStatus: "error", OpenIssues: 23, StalePRs: 8, CICDHealth: "failing", HealthScore: 45, LastCommit: "1 day ago", DeploymentStatus: "failed", Coverage: 65},
			{ID: 4, Name: "data-pipeline", Status: "healthy", SyncStatus: "synced", OpenIssues: 3, StalePRs: 1, CICDHealth: "passing", HealthScore: 95, LastCommit: "30 minutes ago", DeploymentStatus: "deployed", Coverage: 91},
		},
		Timeline: []domain.TimelineEvent{
			{ID: 1, Timestamp: ago(5 * time.Minute), Type: "deployment", Repository: "frontend-app", Message: "Deployment completed successfully", Severity: domain.SeveritySuccess},
			{ID: 2, Timestamp: ago(10 * time.Minute), Type: "ci_failure", Repository: "backend-api", Message: "CI pipeline failed - test coverage below threshold", Severity: domain.SeverityError},
			{ID: 3, Timestamp: ago(15 * time.Minute), Type: "sync_issue", Repository: "mobile-app", Message: "Repository sync failed - authentication error", Severity: domain.SeverityCritical},
			{ID: 4, Timestamp: ago(20 * time.Minute), Type: "health_improvement", Repository: "data-pipeline", Message: "Health score improved to 95%", Severity: domain.SeveritySuccess},
		},
		Alerts: []domain.Alert{
			{ID: 1, Severity: domain.SeverityCritical, Repository: "mobile-app", Message: "Repository sync has been failing for 6 hours", Timestamp: ago(6 * time.Hour), Acknowledged: false, Category: "sync"},
			{ID: 2, Severity: domain.SeverityWarning, Repository: "backend-api", Message: "5 stale pull requests detected", Timestamp: ago(2 * time.Hour), Acknowledged: false, Category: "pr_management"},
			{ID: 3, Severity: domain.SeverityInfo, Repository: "frontend-app", Message: "Deployment completed successfully", Timestamp: ago(5 * time.Minute), Acknowledged: true, Category: "deployment"},
		},
	}
}

var (
	synthSizes  = []string{"small", "medium", "large"}
	synthLabels = []string{"feature", "bugfix", "performance", "documentation", "refactor", "ci/cd"}
)

// Synthesize generates n deterministic PR records. The same seed always yields the same records.
// Repository options with the id "all" are never assigned.
func Synthesize(seed int64, n int, authors []domain.Author, repos []domain.RepositoryOption, now time.Time) []domain.PullRequest {
	var repoIDs []string
	for _, r := range repos {
		if r.ID != domain.AllRepositories {
			repoIDs = append(repoIDs, r.ID)
		}
	}
	if n <= 0 || len(authors) == 0 || len(repoIDs) == 0 {
		return []domain.PullRequest{}
	}

	rng := rand.New(rand.NewSource(seed))
	prs := make([]domain.PullRequest, 0, n)
	for i := 0; i < n; i++ {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			// math/rand readers never fail.
			panic(err)
		}
		author := authors[rng.Intn(len(authors))].ID
		created := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
		pr := domain.PullRequest{
			ID:         id.String(),
			Title:      fmt.Sprintf("Synthetic change #%d", i+1),
			Author:     author,
			Repository: repoIDs[rng.Intn(len(repoIDs))],
			Status:     domain.AllStatuses[rng.Intn(len(domain.AllStatuses))],
			CreatedAt:  created,
			ReviewTime: float64(rng.Intn(80)+1) / 10,
			Size:       synthSizes[rng.Intn(len(synthSizes))],
			Labels:     []string{synthLabels[rng.Intn(len(synthLabels))]},
			Comments:   rng.Intn(20),
			Approvals:  rng.Intn(3),
		}
		pr.ChangesRequested = rng.Intn(3)

		// Up to two reviewers, never the author.
		for _, idx := range rng.Perm(len(authors)) {
			if len(pr.Reviewers) == 2 {
				break
			}
			if authors[idx].ID != author {
				pr.Reviewers = append(pr.Reviewers, authors[idx].ID)
			}
		}

		switch pr.Status {
		case domain.StatusMerged:
			t := created.Add(time.Duration(pr.ReviewTime * float64(time.Hour)))
			pr.MergedAt = &t
		case domain.StatusClosed:
			t := created.Add(time.Duration(pr.ReviewTime * float64(time.Hour)))
			pr.ClosedAt = &t
		}
		prs = append(prs, pr)
	}
	return prs
}
