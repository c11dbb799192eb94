package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/gateway"
)

func alertIDs(alerts []domain.Alert) []int {
	out := make([]int, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterAlerts(t *testing.T) {
	alerts := gateway.SeedData(testNow).Alerts

	testCases := []struct {
		severity string
		expected []int
	}{
		{severity: domain.SeverityAll, expected: []int{1, 2, 3}},
		{severity: "critical", expected: []int{1}},
		{severity: "warning", expected: []int{1, 2}},
		{severity: "info", expected: []int{1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.severity, func(t *testing.T) {
			assert.Equal(t, tc.expected, alertIDs(FilterAlerts(alerts, tc.severity)))
		})
	}
}

func TestCriticalAlerts(t *testing.T) {
	alerts := []domain.Alert{
		{ID: 1, Severity: domain.SeverityCritical},
		{ID: 2, Severity: domain.SeverityCritical, Acknowledged: true},
		{ID: 3, Severity: domain.SeverityWarning},
	}
	assert.Equal(t, []int{1}, alertIDs(CriticalAlerts(alerts)))
	assert.Empty(t, CriticalAlerts(nil))
}

func TestAlertBook(t *testing.T) {
	alerts := gateway.SeedData(testNow).Alerts
	book := NewAlertBook()

	assert.Equal(t, 2, book.Unacknowledged(alerts))

	book.Acknowledge(2)
	assert.Equal(t, 1, book.Unacknowledged(alerts))
	applied := book.Apply(alerts)
	assert.True(t, applied[1].Acknowledged)
	assert.False(t, alerts[1].Acknowledged, "input must not be modified")

	assert.Equal(t, []int{1}, alertIDs(book.Visible(CriticalAlerts(applied))))
	book.Dismiss(1)
	assert.Empty(t, book.Visible(CriticalAlerts(applied)))
	assert.Len(t, book.Apply(alerts), 3, "dismissing only hides the banner entry")

	other := NewAlertBook()
	other.DismissAll(alerts)
	assert.Empty(t, other.Visible(alerts))
}

func TestAlertBook_ConcurrentUse(t *testing.T) {
	alerts := gateway.SeedData(testNow).Alerts
	book := NewAlertBook()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			book.Acknowledge(id%3 + 1)
		}(i)
		go func() {
			defer wg.Done()
			_ = book.Unacknowledged(alerts)
			_ = book.Apply(alerts)
		}()
	}
	wg.Wait()

	assert.Zero(t, book.Unacknowledged(alerts))
}
