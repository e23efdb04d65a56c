package usecase

import (
	"context"

	"site-analytics-service/internal/stats/core/ports"
)

// ResetEventsUseCase bulk-deletes all events within an authorized scope.
type ResetEventsUseCase struct {
	gate   *ScopeGate
	events ports.EventReaderPort
}

func NewResetEventsUseCase(gate *ScopeGate, events ports.EventReaderPort) *ResetEventsUseCase {
	return &ResetEventsUseCase{gate: gate, events: events}
}

// Execute deletes every event in scope and returns the count. An empty scope
// deletes zero rows and is not an error.
func (uc *ResetEventsUseCase) Execute(ctx context.Context, principalID int64, siteFilter string) (int64, error) {
	scope, err := uc.gate.Resolve(ctx, principalID, siteFilter)
	if err != nil {
		return 0, err
	}
	if scope.Empty() {
		return 0, nil
	}
	return uc.events.DeleteBySites(ctx, scope.SiteIDs)
}
