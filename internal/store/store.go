// Package store is the validation-store collaborator: a keyed record store
// holding landing-page visits, call-to-action clicks, and customer
// interviews per tool name. Records are append-only; nothing in this
// system updates or deletes them.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mlutsenko/prevet/internal/model"
)

// ErrMissingDSN indicates the store connection string was not configured.
var ErrMissingDSN = errors.New("store: database DSN not set (export VALIDATION_DB_URL or set store.dsn)")

// Store is the contract the scorecard engine reads through and the
// tracking commands write through.
type Store interface {
	CountVisits(ctx context.Context, tool string) (int, error)
	CountCTAClicks(ctx context.Context, tool string) (int, error)
	ListInterviews(ctx context.Context, tool string) ([]model.Interview, error)

	AddInterview(ctx context.Context, iv model.Interview) error
	RecordVisit(ctx context.Context, tool string, at time.Time) error
	RecordCTAClick(ctx context.Context, tool string, at time.Time) error

	Close()
}
