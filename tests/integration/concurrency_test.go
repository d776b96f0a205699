package integration

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The in-memory profile repo holds its write lock across every conditional
// check-and-set, mirroring the single-statement guarded UPDATEs the postgres
// repo runs. That makes the outcomes below exact, not best-effort: one
// reservation wins, one bonus credit lands, the balance never goes negative.

// TestConcurrentWithdrawalRequests fires 10 simultaneous withdrawal requests
// for the same profile. Exactly one may reserve; the rest must be rejected
// and the balance must reflect a single debit.
func TestConcurrentWithdrawalRequests(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := app.seedPlayer(t, "500")
	app.markWithdrawalEligible(userID)
	token := sessionToken(t, userID)

	concurrency := 10
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body := `{"amount":100}`
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/wallet/withdrawals", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successCount.Load(), "exactly one request may reserve the withdrawal")

	_, body := doRequest(t, http.MethodGet, app.server.URL+"/api/v1/wallet", token, nil)
	data := dataOf(t, body)
	assert.Equal(t, "400.00", data["balance"])
	assert.Equal(t, "awaiting_fee", data["withdrawal_status"])

	// One debit row for the single winner
	rows := app.transactions.all()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Consistent())
	assert.Equal(t, "-100", rows[0].Amount.String())
}

// TestConcurrentBonusClaims fires simultaneous bonus claims; the single
// conditional update must collapse them to one credit.
func TestConcurrentBonusClaims(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := app.seedPlayer(t, "0")
	app.profiles.mu.Lock()
	app.profiles.profiles[userID].HasDeposited = true
	app.profiles.mu.Unlock()
	token := sessionToken(t, userID)

	concurrency := 5
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/wallet/bonus", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == http.StatusCreated {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successCount.Load(), "the welcome bonus may be credited exactly once")

	_, body := doRequest(t, http.MethodGet, app.server.URL+"/api/v1/wallet", token, nil)
	assert.Equal(t, "759.16", dataOf(t, body)["balance"])
	require.Len(t, app.transactions.all(), 1)
}

// TestConcurrentBetsNeverOverdraw fires more bet volume than the balance can
// cover. Some bets lose the race and are rejected; the survivors must leave
// the balance non-negative with one consistent ledger row each.
func TestConcurrentBetsNeverOverdraw(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := app.seedPlayer(t, "100")
	app.seedGame(t, "fortune-tiger")

	// 20 bets of 10 against a balance of 100: at most 10 can settle
	concurrency := 20
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := fmt.Sprintf(`{"user_id":"%s","action":"bet","amount":10,"game_code":"fortune-tiger","round_id":"round_race_%d"}`, userID, idx)
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/callbacks/game", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Webhook-Token", testWebhookToken)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	t.Logf("concurrent bets: %d settled out of %d", successCount.Load(), concurrency)
	assert.Equal(t, int64(10), successCount.Load(), "only ten bets fit the balance")

	final := app.profiles
	final.mu.RLock()
	balance := final.profiles[userID].Balance
	final.mu.RUnlock()
	assert.True(t, balance.GreaterThanOrEqual(decimal.Zero), "balance must never go negative, got %s", balance)
	assert.Equal(t, "0", balance.String())

	rows := app.transactions.all()
	require.Len(t, rows, int(successCount.Load()))
	for _, row := range rows {
		assert.True(t, row.Consistent(), "row %s: %s + %s != %s", row.ID, row.BalanceBefore, row.Amount, row.BalanceAfter)
	}
}

// TestConcurrentSettlementLedgerSum runs a mixed bet/win workload and checks
// that the ledger accounts for every cent: the final balance must equal the
// initial balance plus the signed sum of all committed rows.
func TestConcurrentSettlementLedgerSum(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	userID := app.seedPlayer(t, "1000")
	app.seedGame(t, "fortune-tiger")

	concurrency := 30
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			action := "bet"
			amount := 5 + idx%7
			if idx%3 == 0 {
				action = "win"
			}
			body := fmt.Sprintf(`{"user_id":"%s","action":"%s","amount":%d,"game_code":"fortune-tiger","round_id":"round_mix_%d"}`, userID, action, amount, idx)
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/callbacks/game", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Webhook-Token", testWebhookToken)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			r.Body.Close()
		}(i)
	}
	wg.Wait()

	rows := app.transactions.all()
	sum := decimal.Zero
	for _, row := range rows {
		require.True(t, row.Consistent(), "row %s inconsistent", row.ID)
		sum = sum.Add(row.Amount)
	}

	app.profiles.mu.RLock()
	balance := app.profiles.profiles[userID].Balance
	app.profiles.mu.RUnlock()

	expected := decimal.RequireFromString("1000").Add(sum)
	assert.True(t, balance.Equal(expected), "balance %s != initial + ledger sum %s", balance, expected)
}
