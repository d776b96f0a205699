package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for wallet activity.
type Metrics struct {
	DepositsConfirmed    prometheus.Counter
	WithdrawalsRequested prometheus.Counter
	WithdrawalsCanceled  prometheus.Counter
	FeesConfirmed        prometheus.Counter
	BonusesClaimed       prometheus.Counter
	SettlementsApplied   *prometheus.CounterVec
	LedgerEntries        *prometheus.CounterVec
}

// New registers the wallet metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DepositsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_deposits_confirmed_total",
			Help: "Deposits credited after gateway confirmation",
		}),
		WithdrawalsRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdrawals_requested_total",
			Help: "Withdrawal requests that reserved funds",
		}),
		WithdrawalsCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdrawals_canceled_total",
			Help: "Withdrawals canceled with funds returned",
		}),
		FeesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_fees_confirmed_total",
			Help: "Withdrawal fee payments confirmed",
		}),
		BonusesClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_bonuses_claimed_total",
			Help: "Welcome bonuses credited",
		}),
		SettlementsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_settlements_applied_total",
			Help: "Game round settlements applied, by action",
		}, []string{"action"}),
		LedgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_ledger_entries_total",
			Help: "Ledger rows written, by type",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.DepositsConfirmed,
		m.WithdrawalsRequested,
		m.WithdrawalsCanceled,
		m.FeesConfirmed,
		m.BonusesClaimed,
		m.SettlementsApplied,
		m.LedgerEntries,
	)

	return m
}
