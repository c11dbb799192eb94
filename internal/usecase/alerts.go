package usecase

import (
	"sync"

	"github.com/naka-gawa/devdash/internal/domain"
)

// severityRank orders alert severities from most to least severe.
var severityRank = map[domain.Severity]int{
	domain.SeverityCritical: 0,
	domain.SeverityWarning:  1,
	domain.SeverityInfo:     2,
}

// FilterAlerts keeps alerts at least as severe as the selected level.
// "all" keeps every alert, including severities outside critical/warning/info.
func FilterAlerts(alerts []domain.Alert, severity string) []domain.Alert {
	filtered := make([]domain.Alert, 0, len(alerts))
	if severity == domain.SeverityAll || severity == "" {
		return append(filtered, alerts...)
	}
	limit, ok := severityRank[domain.Severity(severity)]
	if !ok {
		return append(filtered, alerts...)
	}
	for _, a := range alerts {
		if rank, ok := severityRank[a.Severity]; ok && rank <= limit {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// CriticalAlerts returns the unacknowledged critical alerts shown in the banner.
func CriticalAlerts(alerts []domain.Alert) []domain.Alert {
	critical := make([]domain.Alert, 0)
	for _, a := range alerts {
		if a.Severity == domain.SeverityCritical && !a.Acknowledged {
			critical = append(critical, a)
		}
	}
	return critical
}

// AlertBook tracks alerts acknowledged or dismissed during the session.
// It is safe for concurrent use.
type AlertBook struct {
	mu           sync.RWMutex
	acknowledged map[int]struct{}
	dismissed    map[int]struct{}
}

func NewAlertBook() *AlertBook {
	return &AlertBook{
		acknowledged: make(map[int]struct{}),
		dismissed:    make(map[int]struct{}),
	}
}

func (b *AlertBook) Acknowledge(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.acknowledged[id] = struct{}{}
}

func (b *AlertBook) Dismiss(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dismissed[id] = struct{}{}
}

// DismissAll dismisses every given alert.
func (b *AlertBook) DismissAll(alerts []domain.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range alerts {
		b.dismissed[a.ID] = struct{}{}
	}
}

// Apply returns a copy of alerts with session acknowledgements merged in.
func (b *AlertBook) Apply(alerts []domain.Alert) []domain.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if _, ok := b.acknowledged[a.ID]; ok {
			a.Acknowledged = true
		}
		out = append(out, a)
	}
	return out
}

// Visible drops the alerts dismissed from the critical banner.
func (b *AlertBook) Visible(alerts []domain.Alert) []domain.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if _, ok := b.dismissed[a.ID]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// Unacknowledged counts alerts that are neither flagged acknowledged nor acknowledged this session.
func (b *AlertBook) Unacknowledged(alerts []domain.Alert) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, a := range alerts {
		if a.Acknowledged {
			continue
		}
		if _, ok := b.acknowledged[a.ID]; !ok {
			n++
		}
	}
	return n
}
