package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/goal"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/holding"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/transaction"
	"github.com/Hitesh2006-org/FINANCE/internal/domain/user"
	"github.com/Hitesh2006-org/FINANCE/internal/identity"
	"github.com/Hitesh2006-org/FINANCE/internal/migrate"
	"github.com/Hitesh2006-org/FINANCE/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests need a throwaway Postgres database. They are skipped unless
// TEST_DB_DSN points at one. Each test starts from a migrated, truncated
// schema.

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")

	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping repository integration test")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)

	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}

	t.Cleanup(pool.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := migrate.New(pool, log, nil).Run(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE user_profile, transactions, holdings, savings_goals, config, users
		RESTART IDENTITY CASCADE
	`)

	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()

	svc := identity.NewService(postgres.NewUsersRepo(pool), postgres.NewProfilesRepo(pool))

	u, err := svc.Register(context.Background(), username, "secret1", nil)

	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}

	return u.ID
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", s)

	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}

	return d
}

func TestRegisterAndAuthenticate(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	svc := identity.NewService(postgres.NewUsersRepo(pool), postgres.NewProfilesRepo(pool))

	email := "alice@example.com"

	u, err := svc.Register(ctx, "alice", "secret1", &email)

	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if u.ID <= 0 {
		t.Fatalf("expected a positive user id, got %d", u.ID)
	}

	// registration also attaches the default profile
	profile, err := postgres.NewProfilesRepo(pool).Get(ctx, u.ID)

	if err != nil {
		t.Fatalf("load profile: %v", err)
	}

	if profile.UserType != "general" || profile.RiskTolerance != "moderate" {
		t.Fatalf("unexpected default profile: %+v", profile)
	}

	id, err := svc.Authenticate(ctx, "alice", "secret1")

	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if id != u.ID {
		t.Fatalf("authenticate returned user %d, want %d", id, u.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for a bad password, got %v", err)
	}

	if _, err := svc.Authenticate(ctx, "nobody", "secret1"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for an unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	svc := identity.NewService(postgres.NewUsersRepo(pool), postgres.NewProfilesRepo(pool))

	if _, err := svc.Register(ctx, "alice", "secret1", nil); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, "alice", "other-password", nil)

	if !errors.Is(err, postgres.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	// the failed attempt must not leave a half-created profile behind
	var n int64

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_profile`).Scan(&n); err != nil {
		t.Fatalf("count profiles: %v", err)
	}

	if n != 1 {
		t.Fatalf("expected exactly 1 profile, got %d", n)
	}
}

func TestHoldingsScopedPerUser(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	alice := seedUser(t, pool, "alice")
	bob := seedUser(t, pool, "bob")

	repo := postgres.NewHoldingsRepo(pool, nil)

	created, err := repo.Create(ctx, alice, holding.CreateHoldingRequest{Symbol: "aapl", Shares: 10})

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Symbol != "AAPL" {
		t.Fatalf("expected symbol to be upper-cased, got %q", created.Symbol)
	}

	bobHoldings, err := repo.ListForUser(ctx, bob)

	if err != nil {
		t.Fatalf("list bob: %v", err)
	}

	if len(bobHoldings) != 0 {
		t.Fatalf("bob sees alice's holdings: %+v", bobHoldings)
	}

	// deleting through the wrong owner does nothing, silently
	if err := repo.Delete(ctx, created.ID, bob); err != nil {
		t.Fatalf("cross-user delete: %v", err)
	}

	aliceHoldings, err := repo.ListForUser(ctx, alice)

	if err != nil {
		t.Fatalf("list alice: %v", err)
	}

	if len(aliceHoldings) != 1 {
		t.Fatalf("expected alice's holding to survive, got %d rows", len(aliceHoldings))
	}

	if err := repo.Delete(ctx, created.ID, alice); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	aliceHoldings, err = repo.ListForUser(ctx, alice)

	if err != nil {
		t.Fatalf("list alice after delete: %v", err)
	}

	if len(aliceHoldings) != 0 {
		t.Fatalf("expected no holdings after delete, got %d", len(aliceHoldings))
	}
}

func TestTransactionsOrderedNewestFirst(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	alice := seedUser(t, pool, "alice")

	repo := postgres.NewTransactionsRepo(pool, nil)

	older := transaction.CreateTransactionRequest{
		Date: mustDate(t, "2026-01-05"), Type: transaction.TypeExpense, Category: "groceries", Amount: 42.50,
	}
	newer := transaction.CreateTransactionRequest{
		Date: mustDate(t, "2026-03-01"), Type: transaction.TypeIncome, Category: "salary", Amount: 3200,
	}

	if _, err := repo.Create(ctx, alice, older); err != nil {
		t.Fatalf("create older: %v", err)
	}

	if _, err := repo.Create(ctx, alice, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	list, err := repo.ListForUser(ctx, alice)

	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(list))
	}

	if list[0].Category != "salary" || list[1].Category != "groceries" {
		t.Fatalf("expected newest first, got %q then %q", list[0].Category, list[1].Category)
	}
}

func TestGoalPartialUpdate(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	alice := seedUser(t, pool, "alice")
	bob := seedUser(t, pool, "bob")

	repo := postgres.NewGoalsRepo(pool, nil)

	created, err := repo.Create(ctx, alice, goal.CreateGoalRequest{Name: "Emergency fund", TargetAmount: 5000})

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := 250.0

	if err := repo.Update(ctx, created.ID, alice, goal.UpdateGoalRequest{CurrentAmount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := repo.ListForUser(ctx, alice)

	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(list) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(list))
	}

	got := list[0]

	if got.CurrentAmount != 250 {
		t.Fatalf("currentAmount not updated: %+v", got)
	}

	// untouched fields keep their stored values
	if got.Name != "Emergency fund" || got.TargetAmount != 5000 {
		t.Fatalf("partial update clobbered other fields: %+v", got)
	}

	// updating through the wrong owner changes nothing and is not an error
	other := 9999.0

	if err := repo.Update(ctx, created.ID, bob, goal.UpdateGoalRequest{CurrentAmount: &other}); err != nil {
		t.Fatalf("cross-user update: %v", err)
	}

	list, err = repo.ListForUser(ctx, alice)

	if err != nil {
		t.Fatalf("list after cross-user update: %v", err)
	}

	if list[0].CurrentAmount != 250 {
		t.Fatalf("cross-user update leaked through: %+v", list[0])
	}
}

func TestProfileSaveAndDefault(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	alice := seedUser(t, pool, "alice")

	repo := postgres.NewProfilesRepo(pool)

	p := user.Profile{UserID: alice, UserType: "student", SavingsGoal: 1500, RiskTolerance: "low"}

	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, alice)

	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != p {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, p)
	}
}

func TestConfigUpsertLastWriteWins(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	repo := postgres.NewConfigRepo(pool)

	if _, err := repo.Get(ctx, "api_key"); !errors.Is(err, postgres.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound on empty config, got %v", err)
	}

	if err := repo.Set(ctx, "api_key", "first"); err != nil {
		t.Fatalf("first set: %v", err)
	}

	if err := repo.Set(ctx, "api_key", "second"); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := repo.Get(ctx, "api_key")

	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}
