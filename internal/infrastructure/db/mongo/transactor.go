package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ms19/journal-system/internal/core/ports"
)

// Transactor runs a unit of work inside a MongoDB multi-document transaction.
// Transactions need a replica set; with enabled=false fn runs directly.
type Transactor struct {
	client  *mongo.Client
	enabled bool
	logger  zerolog.Logger
}

var _ ports.Transactor = (*Transactor)(nil)

func NewTransactor(client *mongo.Client, enabled bool, logger zerolog.Logger) *Transactor {
	if !enabled {
		logger.Warn().Msg("mongo transactions disabled, multi-document writes are not atomic")
	}
	return &Transactor{client: client, enabled: enabled, logger: logger}
}

// WithinTransaction passes a session context to fn. Repositories derive their
// per-call contexts from it, so every write joins the transaction.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
