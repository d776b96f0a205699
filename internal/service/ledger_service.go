package service

import (
	"context"
	"fmt"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/internal/metrics"
	"casino-wallet-platform/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. Every balance mutation in
// the system flows through Append so the ledger row commits atomically with
// the balance it describes.
type LedgerServiceImpl struct {
	txRepo    ports.TransactionRepository
	publisher ports.EventPublisher
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewLedgerService creates a new ledger service. publisher and m may be nil.
func NewLedgerService(txRepo ports.TransactionRepository, publisher ports.EventPublisher, m *metrics.Metrics, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:    txRepo,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Append validates the snapshot invariant and inserts the row inside tx.
func (s *LedgerServiceImpl) Append(ctx context.Context, tx pgx.Tx, entry *domain.Transaction) error {
	if !entry.Consistent() {
		return apperror.InternalError(fmt.Errorf(
			"ledger entry %s inconsistent: %s + %s != %s",
			entry.ID, entry.BalanceBefore, entry.Amount, entry.BalanceAfter,
		))
	}

	if err := s.txRepo.Create(ctx, tx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("append ledger entry: %w", err))
	}
	return nil
}

// Committed emits metrics and broker events for a committed entry. Callers
// invoke it after the surrounding database transaction commits.
func (s *LedgerServiceImpl) Committed(ctx context.Context, entry *domain.Transaction) {
	if s.metrics != nil {
		s.metrics.LedgerEntries.WithLabelValues(string(entry.Type)).Inc()
	}
	if s.publisher != nil {
		s.publisher.PublishLedgerEvent(ctx, domain.NewLedgerEvent(entry))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("user_id", entry.UserID.String()).
		Str("type", string(entry.Type)).
		Str("amount", entry.Amount.String()).
		Str("balance_after", entry.BalanceAfter.String()).
		Msg("ledger entry committed")
}
