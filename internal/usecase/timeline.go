package usecase

import (
	"sort"

	"github.com/naka-gawa/devdash/internal/domain"
)

// FilterTimeline keeps the events of the given type, newest first.
// "all" (or empty) keeps every event.
func FilterTimeline(events []domain.TimelineEvent, eventType string) []domain.TimelineEvent {
	filtered := make([]domain.TimelineEvent, 0, len(events))
	for _, e := range events {
		if eventType != domain.EventTypeAll && eventType != "" && e.Type != eventType {
			continue
		}
		filtered = append(filtered, e)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})
	return filtered
}
