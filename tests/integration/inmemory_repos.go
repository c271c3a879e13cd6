package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetWallet(ctx context.Context, providerID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[providerID]
	if !ok {
		return nil, nil
	}
	cp := a.Wallet
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetWalletForUpdate(ctx context.Context, tx pgx.Tx, providerID uuid.UUID) (*domain.Wallet, error) {
	return r.GetWallet(ctx, providerID)
}

func (r *inMemoryAccountRepo) UpdateWallet(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[w.ProviderID]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Wallet.Balance = w.Balance
	a.Wallet.HasPendingWithdrawal = w.HasPendingWithdrawal
	return nil
}

// --- In-Memory Withdrawal Repo ---

type inMemoryWithdrawalRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.WithdrawalRequest
}

func newInMemoryWithdrawalRepo() *inMemoryWithdrawalRepo {
	return &inMemoryWithdrawalRepo{requests: make(map[uuid.UUID]*domain.WithdrawalRequest)}
}

func (r *inMemoryWithdrawalRepo) Create(ctx context.Context, tx pgx.Tx, req *domain.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *inMemoryWithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *inMemoryWithdrawalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryWithdrawalRepo) Update(ctx context.Context, tx pgx.Tx, req *domain.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return fmt.Errorf("withdrawal request not found")
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *inMemoryWithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WithdrawalRequest
	for _, req := range r.requests {
		if params.ProviderID != nil && req.ProviderID != *params.ProviderID {
			continue
		}
		if params.Status != nil && req.Status != *params.Status {
			continue
		}
		result = append(result, *req)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	total := int64(len(result))

	// Simple pagination
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.WithdrawalRequest{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryWithdrawalRepo) SumJobFunded(ctx context.Context, providerID uuid.UUID, statuses []domain.WithdrawalStatus) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for _, req := range r.requests {
		if req.ProviderID != providerID {
			continue
		}
		for _, s := range statuses {
			if req.Status == s {
				sum = sum.Add(req.Amount.Sub(req.LockedAmount))
				break
			}
		}
	}
	return sum, nil
}

// --- In-Memory Job Repo ---

type inMemoryJobRepo struct {
	mu   sync.RWMutex
	jobs []domain.CompletedJob
}

func newInMemoryJobRepo() *inMemoryJobRepo {
	return &inMemoryJobRepo{}
}

func (r *inMemoryJobRepo) addJob(job domain.CompletedJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
}

func (r *inMemoryJobRepo) ListCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.CompletedJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.CompletedJob
	for _, j := range r.jobs {
		if j.ProviderID == providerID {
			result = append(result, j)
		}
	}
	return result, nil
}

// --- In-Memory Settings Repo ---

type inMemorySettingsRepo struct {
	mu               sync.RWMutex
	withdrawalPolicy *domain.WithdrawalPolicy
	commissionPolicy *domain.CommissionPolicy
}

func newInMemorySettingsRepo() *inMemorySettingsRepo {
	return &inMemorySettingsRepo{}
}

func (r *inMemorySettingsRepo) GetWithdrawalPolicy(ctx context.Context) (*domain.WithdrawalPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.withdrawalPolicy == nil {
		r.withdrawalPolicy = domain.DefaultWithdrawalPolicy()
	}
	cp := *r.withdrawalPolicy
	return &cp, nil
}

func (r *inMemorySettingsRepo) UpdateWithdrawalPolicy(ctx context.Context, policy *domain.WithdrawalPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *policy
	r.withdrawalPolicy = &cp
	return nil
}

func (r *inMemorySettingsRepo) GetCommissionPolicy(ctx context.Context) (*domain.CommissionPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commissionPolicy == nil {
		r.commissionPolicy = domain.DefaultCommissionPolicy()
	}
	cp := *r.commissionPolicy
	return &cp, nil
}

func (r *inMemorySettingsRepo) UpdateCommissionPolicy(ctx context.Context, policy *domain.CommissionPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *policy
	r.commissionPolicy = &cp
	return nil
}

// --- In-Memory Notification Repo ---

type inMemoryNotificationRepo struct {
	mu            sync.RWMutex
	notifications []domain.Notification
}

func newInMemoryNotificationRepo() *inMemoryNotificationRepo {
	return &inMemoryNotificationRepo{}
}

func (r *inMemoryNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *inMemoryNotificationRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]domain.Notification, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Notification
	for _, n := range r.notifications {
		if n.AccountID == accountID {
			result = append(result, n)
		}
	}
	total := int64(len(result))

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Notification{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
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

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions with a mutex, standing in for
// the row locks the real implementation takes with SELECT ... FOR UPDATE.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &noopTx{unlock: &t.mu}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing. Commit and
// Rollback both release the transactor lock; only the first call counts so
// the deferred Rollback after a Commit is harmless.
type noopTx struct {
	unlock *sync.Mutex
	once   sync.Once
}

func (t *noopTx) release() {
	if t.unlock != nil {
		t.once.Do(t.unlock.Unlock)
	}
}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { t.release(); return nil }
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
