//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/platform/apperr"
	"repairshop_backend/platform/db"
	"repairshop_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./internal/workflow/repository/

type dsn string

func (d dsn) GetDatabaseURL() string { return string(d) }

func newPostgresRepo(t *testing.T) (*Repository, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn(url))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.RunMigrations(ctx, pool, logger.New("test")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(pool), pool
}

func insertUser(t *testing.T, pool *pgxpool.Pool, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, role, display_name, email) VALUES ($1, $2, $3, $4)`,
		id, role, role+" "+id.String()[:8], id.String()+"@example.test",
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func seedPostgresRequest(t *testing.T, repo *Repository, pool *pgxpool.Pool, status domain.RequestStatus) domain.ServiceRequest {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	req := domain.ServiceRequest{
		ID:         uuid.New(),
		CustomerID: insertUser(t, pool, "customer"),
		StoreID:    uuid.New(),
		Status:     status,
		Priority:   domain.PriorityRegular,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.InsertRequest(context.Background(), req); err != nil {
		t.Fatalf("insert request: %v", err)
	}
	return req
}

func TestPostgresUpdateRequestGuardsStatus(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresRepo(t)
	req := seedPostgresRequest(t, repo, pool, domain.StatusInProcess)

	moved := req
	moved.Status = domain.StatusReadyForPickup
	err := repo.UpdateRequest(ctx, moved, domain.StatusPendingForApproval)
	if apperr.GetCode(err) != domain.CodeInvalidTransition {
		t.Fatalf("expected invalid_transition for stale status, got %v", err)
	}

	moved.Status = domain.StatusPendingForApproval
	if err := repo.UpdateRequest(ctx, moved, domain.StatusInProcess); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, err := repo.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.StatusPendingForApproval {
		t.Fatalf("expected pending_for_approval, got %s", stored.Status)
	}
}

func TestPostgresLockRequestSerializesWriters(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresRepo(t)
	req := seedPostgresRequest(t, repo, pool, domain.StatusInProcess)

	locked := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- repo.WithinTx(ctx, func(ctx context.Context, tx Store) error {
			cur, err := tx.LockRequest(ctx, req.ID)
			if err != nil {
				close(locked)
				return err
			}
			close(locked)
			<-release
			cur.Status = domain.StatusPendingForApproval
			return tx.UpdateRequest(ctx, cur, domain.StatusInProcess)
		})
	}()

	<-locked
	secondDone := make(chan error, 1)
	go func() {
		secondDone <- repo.WithinTx(ctx, func(ctx context.Context, tx Store) error {
			cur, err := tx.LockRequest(ctx, req.ID)
			if err != nil {
				return err
			}
			if cur.Status != domain.StatusPendingForApproval {
				t.Errorf("second writer saw %s, expected the first writer's commit", cur.Status)
			}
			return nil
		})
	}()

	select {
	case err := <-secondDone:
		t.Fatalf("second writer finished while the row was locked: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first writer: %v", err)
	}
	if err := <-secondDone; err != nil {
		t.Fatalf("second writer: %v", err)
	}
}

func TestPostgresCompleteActivityOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresRepo(t)
	req := seedPostgresRequest(t, repo, pool, domain.StatusInProcess)
	employee := insertUser(t, pool, "employee")
	manager := insertUser(t, pool, "store_manager")

	a := &domain.Activity{
		ServiceRequestID:     req.ID,
		Type:                 domain.ActivityRepair,
		ProcessingEmployeeID: employee,
		AssignedBy:           manager,
		Status:               domain.ActivityInProgress,
		StartTime:            time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := repo.InsertActivity(ctx, a); err != nil {
		t.Fatalf("insert activity: %v", err)
	}
	if a.Seq == 0 {
		t.Fatal("expected seq to be assigned by the database")
	}

	done, err := domain.ValidateCompletion(*a, domain.ActivityCompleted, a.StartTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := repo.CompleteActivity(ctx, done); err != nil {
		t.Fatalf("complete: %v", err)
	}
	err = repo.CompleteActivity(ctx, done)
	if apperr.GetCode(err) != domain.CodeInvalidStateForType {
		t.Fatalf("expected invalid_state_for_type on second completion, got %v", err)
	}

	stored, err := repo.GetActivity(ctx, a.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if stored.Status != domain.ActivityCompleted || stored.EndTime == nil {
		t.Fatalf("expected completed activity with end time, got %+v", stored)
	}
}

func TestPostgresWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresRepo(t)
	req := seedPostgresRequest(t, repo, pool, domain.StatusInProcess)

	err := repo.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		cur, err := tx.LockRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		cur.Status = domain.StatusPendingForApproval
		if err := tx.UpdateRequest(ctx, cur, domain.StatusInProcess); err != nil {
			return err
		}
		return apperr.Internal("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	stored, err := repo.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.StatusInProcess {
		t.Fatalf("expected rollback to keep in_process, got %s", stored.Status)
	}
}
