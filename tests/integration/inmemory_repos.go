package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Profile Repo ---
//
// The conditional mutations hold the write lock for the whole check-and-set,
// which gives the same atomicity the SQL guards give in production.

type inMemoryProfileRepo struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*domain.Profile
}

func newInMemoryProfileRepo() *inMemoryProfileRepo {
	return &inMemoryProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *inMemoryProfileRepo) seed(p *domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.ID] = &cp
}

func (r *inMemoryProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryProfileRepo) List(ctx context.Context, params ports.ProfileListParams) ([]domain.Profile, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Profile
	for _, p := range r.profiles {
		if params.Blocked != nil && p.Blocked != *params.Blocked {
			continue
		}
		if params.Search != "" {
			name := ""
			if p.FullName != nil {
				name = *p.FullName
			}
			if !strings.Contains(strings.ToLower(p.Email), strings.ToLower(params.Search)) &&
				!strings.Contains(strings.ToLower(name), strings.ToLower(params.Search)) {
				continue
			}
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Profile{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryProfileRepo) UpdateContact(ctx context.Context, id uuid.UUID, fields ports.ProfileContactUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	if fields.FullName != nil {
		p.FullName = fields.FullName
	}
	if fields.Phone != nil {
		p.Phone = fields.Phone
	}
	if fields.CPF != nil {
		p.CPF = fields.CPF
	}
	if fields.PixKey != nil {
		p.PixKey = fields.PixKey
	}
	if fields.PixKeyType != nil {
		p.PixKeyType = fields.PixKeyType
	}
	if fields.PixName != nil {
		p.PixName = fields.PixName
	}
	return nil
}

func (r *inMemoryProfileRepo) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.Blocked = blocked
	return nil
}

func (r *inMemoryProfileRepo) CreditDeposit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	before := p.Balance
	p.Balance = p.Balance.Add(amount)
	p.HasDeposited = true
	return &domain.BalanceChange{Before: before, After: p.Balance}, nil
}

func (r *inMemoryProfileRepo) ReserveWithdrawal(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.WithdrawalStatus != nil || p.Balance.LessThan(amount) {
		return nil, nil
	}
	before := p.Balance
	p.Balance = p.Balance.Sub(amount)
	status := domain.WithdrawalAwaitingFee
	p.WithdrawalStatus = &status
	p.WithdrawalAmount = amount
	return &domain.BalanceChange{Before: before, After: p.Balance}, nil
}

func (r *inMemoryProfileRepo) ReleaseWithdrawal(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BalanceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.WithdrawalStatus == nil || *p.WithdrawalStatus != domain.WithdrawalAwaitingFee {
		return nil, nil
	}
	before := p.Balance
	p.Balance = p.Balance.Add(p.WithdrawalAmount)
	p.WithdrawalStatus = nil
	p.WithdrawalAmount = decimal.Zero
	return &domain.BalanceChange{Before: before, After: p.Balance}, nil
}

func (r *inMemoryProfileRepo) MarkFeePaid(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.WithdrawalStatus == nil || *p.WithdrawalStatus != domain.WithdrawalAwaitingFee {
		return false, nil
	}
	status := domain.WithdrawalProcessing
	p.WithdrawalStatus = &status
	return true, nil
}

func (r *inMemoryProfileRepo) RevertProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.WithdrawalStatus == nil || *p.WithdrawalStatus != domain.WithdrawalProcessing {
		return false, nil
	}
	status := domain.WithdrawalAwaitingFee
	p.WithdrawalStatus = &status
	return true, nil
}

func (r *inMemoryProfileRepo) ClearWithdrawal(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.WithdrawalStatus == nil {
		return false, nil
	}
	p.WithdrawalStatus = nil
	p.WithdrawalAmount = decimal.Zero
	return true, nil
}

func (r *inMemoryProfileRepo) ClaimBonus(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || !p.HasDeposited || p.BonusClaimed {
		return nil, nil
	}
	before := p.Balance
	p.Balance = p.Balance.Add(amount)
	p.BonusClaimed = true
	return &domain.BalanceChange{Before: before, After: p.Balance}, nil
}

func (r *inMemoryProfileRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) (*domain.BalanceChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	if delta.IsNegative() && p.Balance.LessThan(delta.Neg()) {
		return nil, nil
	}
	before := p.Balance
	p.Balance = p.Balance.Add(delta)
	return &domain.BalanceChange{Before: before, After: p.Balance}, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	rows []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *t)
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error) {
	userIDCopy := userID
	params := ports.TransactionListParams{UserID: &userIDCopy, Page: page, PageSize: pageSize}
	return r.List(ctx, params)
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.rows {
		if params.UserID != nil && t.UserID != *params.UserID {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.From != nil && t.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && t.CreatedAt.Unix() > *params.To {
			continue
		}
		result = append(result, t)
	}
	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{
		TotalDeposited: decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		TotalWagered:   decimal.Zero,
		TotalWon:       decimal.Zero,
	}
	for _, t := range r.rows {
		stats.TotalTransactions++
		switch t.Type {
		case domain.TransactionTypeDeposit:
			stats.TotalDeposited = stats.TotalDeposited.Add(t.Amount)
		case domain.TransactionTypeWithdrawal:
			stats.TotalWithdrawn = stats.TotalWithdrawn.Add(t.Amount.Abs())
		case domain.TransactionTypeBet:
			stats.TotalWagered = stats.TotalWagered.Add(t.Amount.Abs())
		case domain.TransactionTypeWin:
			stats.TotalWon = stats.TotalWon.Add(t.Amount)
		}
	}
	return stats, nil
}

// all returns a snapshot of every ledger row, for invariant checks.
func (r *inMemoryTransactionRepo) all() []domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Transaction, len(r.rows))
	copy(out, r.rows)
	return out
}

// --- In-Memory Game / Provider Repos ---

type inMemoryGameRepo struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*domain.Game
}

func newInMemoryGameRepo() *inMemoryGameRepo {
	return &inMemoryGameRepo{games: make(map[uuid.UUID]*domain.Game)}
}

func (r *inMemoryGameRepo) Create(ctx context.Context, g *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *inMemoryGameRepo) Update(ctx context.Context, g *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[g.ID]; !ok {
		return fmt.Errorf("game not found")
	}
	cp := *g
	r.games[g.ID] = &cp
	return nil
}

func (r *inMemoryGameRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return fmt.Errorf("game not found")
	}
	delete(r.games, id)
	return nil
}

func (r *inMemoryGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *inMemoryGameRepo) GetByCode(ctx context.Context, code string) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.games {
		if g.Code == code {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryGameRepo) List(ctx context.Context, onlyActive bool) ([]domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Game
	for _, g := range r.games {
		if onlyActive && !g.Active {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

type inMemoryProviderRepo struct {
	mu        sync.RWMutex
	providers map[uuid.UUID]*domain.Provider
}

func newInMemoryProviderRepo() *inMemoryProviderRepo {
	return &inMemoryProviderRepo{providers: make(map[uuid.UUID]*domain.Provider)}
}

func (r *inMemoryProviderRepo) Create(ctx context.Context, p *domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.providers[p.ID] = &cp
	return nil
}

func (r *inMemoryProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.ID]; !ok {
		return fmt.Errorf("provider not found")
	}
	cp := *p
	r.providers[p.ID] = &cp
	return nil
}

func (r *inMemoryProviderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[id]; !ok {
		return fmt.Errorf("provider not found")
	}
	delete(r.providers, id)
	return nil
}

func (r *inMemoryProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryProviderRepo) List(ctx context.Context) ([]domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Provider
	for _, p := range r.providers {
		out = append(out, *p)
	}
	return out, nil
}

// --- In-Memory Settings / Admin / Audit Repos ---

type inMemorySettingsRepo struct {
	mu       sync.RWMutex
	settings *domain.GatewaySettings
}

func newInMemorySettingsRepo() *inMemorySettingsRepo {
	return &inMemorySettingsRepo{}
}

func (r *inMemorySettingsRepo) Get(ctx context.Context) (*domain.GatewaySettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, nil
	}
	cp := *r.settings
	return &cp, nil
}

func (r *inMemorySettingsRepo) Upsert(ctx context.Context, s *domain.GatewaySettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings = &cp
	return nil
}

type inMemoryAdminRepo struct {
	mu     sync.RWMutex
	admins map[string]*domain.AdminUser
}

func newInMemoryAdminRepo() *inMemoryAdminRepo {
	return &inMemoryAdminRepo{admins: make(map[string]*domain.AdminUser)}
}

func (r *inMemoryAdminRepo) Create(ctx context.Context, a *domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[a.Username]; ok {
		return fmt.Errorf("username already exists")
	}
	cp := *a
	r.admins[a.Username] = &cp
	return nil
}

func (r *inMemoryAdminRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[username]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]*domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]*domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[log.Key]; ok {
		return fmt.Errorf("duplicate key")
	}
	cp := *log
	r.logs[log.Key] = &cp
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
