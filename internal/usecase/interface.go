package usecase

import (
	"context"

	"rent-reconciliation/internal/domain"
)

// TableRepository turns uploaded files into raw tables.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go TableRepository EventSink
type TableRepository interface {
	GetLedgerSheet(ctx context.Context, upload domain.Upload) (domain.Sheet, error)
	GetStatementSheet(ctx context.Context, upload domain.Upload) (domain.Sheet, error)
}

// EventSink receives structured events from the reconciliation core.
type EventSink interface {
	Emit(event domain.Event)
}

// DiscardSink drops every event.
type DiscardSink struct{}

func (DiscardSink) Emit(domain.Event) {}
