package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/devdash/internal/domain"
)

// warningFloor is the lowest score still shown in the warning band.
const warningFloor = 70

// SortField is a sortable column of the repository table.
type SortField string

const (
	SortName             SortField = "name"
	SortStatus           SortField = "status"
	SortHealthScore      SortField = "healthScore"
	SortOpenIssues       SortField = "openIssues"
	SortStalePRs         SortField = "stalePRs"
	SortCoverage         SortField = "coverage"
	SortSyncStatus       SortField = "syncStatus"
	SortCICDHealth       SortField = "cicdHealth"
	SortDeploymentStatus SortField = "deploymentStatus"
)

var sortFields = []SortField{
	SortName, SortStatus, SortHealthScore, SortOpenIssues, SortStalePRs,
	SortCoverage, SortSyncStatus, SortCICDHealth, SortDeploymentStatus,
}

// ParseSortField accepts a column name in camelCase, snake_case or kebab-case.
func ParseSortField(s string) (SortField, error) {
	norm := normalizeKey(s)
	for _, f := range sortFields {
		if normalizeKey(string(f)) == norm {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownSortField, s)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(s)))
}

// SortDirection orders the repository table.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortDirection accepts "asc" or "desc" in any case.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Ascending):
		return Ascending, nil
	case string(Descending):
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownDirection, s)
	}
}

// TableSort is the sort state of the repository table.
type TableSort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultTableSort sorts by health score, highest first.
func DefaultTableSort() TableSort {
	return TableSort{Field: SortHealthScore, Direction: Descending}
}

// Toggle applies a header click: the active column flips direction, a new column starts descending.
func (s TableSort) Toggle(field SortField) TableSort {
	if s.Field == field {
		if s.Direction == Ascending {
			return TableSort{Field: field, Direction: Descending}
		}
		return TableSort{Field: field, Direction: Ascending}
	}
	return TableSort{Field: field, Direction: Descending}
}

func sortKey(r domain.RepositoryHealth, f SortField) (string, int, bool) {
	switch f {
	case SortName:
		return strings.ToLower(r.Name), 0, true
	case SortStatus:
		return strings.ToLower(r.Status), 0, true
	case SortSyncStatus:
		return strings.ToLower(r.SyncStatus), 0, true
	case SortCICDHealth:
		return strings.ToLower(r.CICDHealth), 0, true
	case SortDeploymentStatus:
		return strings.ToLower(r.DeploymentStatus), 0, true
	case SortOpenIssues:
		return "", r.OpenIssues, false
	case SortStalePRs:
		return "", r.StalePRs, false
	case SortCoverage:
		return "", r.Coverage, false
	default:
		return "", r.HealthScore, false
	}
}

// SortRepositories returns a sorted copy of repos. Strings compare case-insensitively and
// equal keys keep their input order.
func SortRepositories(repos []domain.RepositoryHealth, s TableSort) []domain.RepositoryHealth {
	sorted := append([]domain.RepositoryHealth(nil), repos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		as, ai, isStr := sortKey(sorted[i], s.Field)
		bs, bi, _ := sortKey(sorted[j], s.Field)
		if isStr {
			if s.Direction == Ascending {
				return as < bs
			}
			return as > bs
		}
		if s.Direction == Ascending {
			return ai < bi
		}
		return ai > bi
	})
	return sorted
}

// ParseThreshold parses a health threshold in the 0-100 range.
func ParseThreshold(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidThreshold, s)
	}
	if err := ValidateThreshold(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateThreshold reports whether v is a usable health threshold.
func ValidateThreshold(v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidThreshold, v)
	}
	return nil
}

// HealthBand maps a health score to its display band.
func HealthBand(score, threshold int) domain.Band {
	switch {
	case score >= threshold:
		return domain.BandSuccess
	case score >= warningFloor:
		return domain.BandWarning
	default:
		return domain.BandError
	}
}

// SummarizeHealth counts repositories by status and lists those scoring below threshold.
func SummarizeHealth(repos []domain.RepositoryHealth, threshold int) domain.HealthSummary {
	summary := domain.HealthSummary{
		Total:          len(repos),
		ByStatus:       make(map[string]int),
		BelowThreshold: []string{},
	}
	scores := make(stats.Float64Data, 0, len(repos))
	for _, r := range repos {
		summary.ByStatus[r.Status]++
		scores = append(scores, float64(r.HealthScore))
		if r.HealthScore < threshold {
			summary.BelowThreshold = append(summary.BelowThreshold, r.Name)
		}
	}
	summary.AvgHealthScore = mean(scores)
	return summary
}
