package ports

import (
	"context"

	"site-analytics-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	// InsertEvents appends a batch of events in one statement. The batch
	// either lands whole or not at all. Events are immutable once written.
	InsertEvents(ctx context.Context, events []domain.Event) error
}
