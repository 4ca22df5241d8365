package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"repairshop_backend/internal/workflow/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the PostgreSQL implementation of Transactor.
type Repository struct {
	pool *pgxpool.Pool
	q    querier
}

// New creates a new workflow repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, q: pool}
}

// WithinTx runs fn in a single database transaction.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin workflow transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &Repository{pool: r.pool, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit workflow transaction: %w", err)
	}
	return nil
}

const requestColumns = `id, customer_id, store_id, assigned_employee_id, catalog_entry_id, status,
	reassigned, priority, payments, feedback, created_at, updated_at`

func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	return r.getRequest(ctx, id, "SELECT "+requestColumns+" FROM service_requests WHERE id = $1")
}

func (r *Repository) LockRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	return r.getRequest(ctx, id, "SELECT "+requestColumns+" FROM service_requests WHERE id = $1 FOR UPDATE")
}

func (r *Repository) getRequest(ctx context.Context, id uuid.UUID, query string) (domain.ServiceRequest, error) {
	var (
		req                   domain.ServiceRequest
		status, priority      string
		paymentsRaw, feedback []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.CustomerID, &req.StoreID, &req.AssignedEmployeeID, &req.CatalogEntryID, &status,
		&req.Reassigned, &priority, &paymentsRaw, &feedback, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ServiceRequest{}, requestNotFound(id)
		}
		return domain.ServiceRequest{}, fmt.Errorf("failed to get service request: %w", err)
	}

	var ok bool
	if req.Status, ok = domain.ParseRequestStatus(status); !ok {
		return domain.ServiceRequest{}, fmt.Errorf("service request %s has unknown status %q", id, status)
	}
	if req.Priority, ok = domain.ParsePriority(priority); !ok {
		return domain.ServiceRequest{}, fmt.Errorf("service request %s has unknown priority %q", id, priority)
	}
	if len(paymentsRaw) > 0 {
		if err := json.Unmarshal(paymentsRaw, &req.Payments); err != nil {
			return domain.ServiceRequest{}, fmt.Errorf("failed to decode payments: %w", err)
		}
	}
	if len(feedback) > 0 {
		var fb domain.Feedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return domain.ServiceRequest{}, fmt.Errorf("failed to decode feedback: %w", err)
		}
		req.Feedback = &fb
	}
	return req, nil
}

func encodeRequestJSON(req domain.ServiceRequest) (payments []byte, feedback []byte, err error) {
	list := req.Payments
	if list == nil {
		list = []domain.PaymentAttempt{}
	}
	if payments, err = json.Marshal(list); err != nil {
		return nil, nil, fmt.Errorf("failed to encode payments: %w", err)
	}
	if req.Feedback != nil {
		if feedback, err = json.Marshal(req.Feedback); err != nil {
			return nil, nil, fmt.Errorf("failed to encode feedback: %w", err)
		}
	}
	return payments, feedback, nil
}

func (r *Repository) InsertRequest(ctx context.Context, req domain.ServiceRequest) error {
	payments, feedback, err := encodeRequestJSON(req)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO service_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		req.ID, req.CustomerID, req.StoreID, req.AssignedEmployeeID, req.CatalogEntryID, string(req.Status),
		req.Reassigned, string(req.Priority), payments, feedback, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

func (r *Repository) UpdateRequest(ctx context.Context, req domain.ServiceRequest, expected domain.RequestStatus) error {
	payments, feedback, err := encodeRequestJSON(req)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE service_requests
		SET status = $2, reassigned = $3, assigned_employee_id = $4, payments = $5, feedback = $6, updated_at = $7
		WHERE id = $1 AND status = $8`,
		req.ID, string(req.Status), req.Reassigned, req.AssignedEmployeeID, payments, feedback, req.UpdatedAt, string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update service request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return statusMoved(req.ID, expected)
	}
	return nil
}

const activityColumns = `id, seq, service_request_id, activity_type, processing_employee_id, assigned_by,
	assigned_to, comment_text, comment_date, status, start_time, end_time, created_at`

func (r *Repository) InsertActivity(ctx context.Context, a *domain.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	var commentText *string
	var commentDate *time.Time
	if a.Comments != nil {
		commentText = &a.Comments.Text
		commentDate = &a.Comments.Date
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO employee_activities (
			id, service_request_id, activity_type, processing_employee_id, assigned_by,
			assigned_to, comment_text, comment_date, status, start_time, end_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq, created_at`,
		a.ID, a.ServiceRequestID, string(a.Type), a.ProcessingEmployeeID, a.AssignedBy,
		a.AssignedTo, commentText, commentDate, string(a.Status), a.StartTime, a.EndTime,
	).Scan(&a.Seq, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (r *Repository) CompleteActivity(ctx context.Context, a domain.Activity) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE employee_activities SET status = $2, end_time = $3
		WHERE id = $1 AND status = 'in_progress'`,
		a.ID, string(a.Status), a.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to complete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return activityNotOpen(a.ID)
	}
	return nil
}

func (r *Repository) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	row := r.q.QueryRow(ctx, "SELECT "+activityColumns+" FROM employee_activities WHERE id = $1", id)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, activityNotFound(id)
		}
		return domain.Activity{}, err
	}
	return a, nil
}

func (r *Repository) ListActivities(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	query, args := buildActivityQuery(filter)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

func buildActivityQuery(filter ActivityFilter) (string, []any) {
	conditions := []string{"service_request_id = $1"}
	args := []any{filter.ServiceRequestID}

	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.ProcessingEmployeeID != nil {
		add("processing_employee_id", *filter.ProcessingEmployeeID)
	}
	if filter.AssignedTo != nil {
		add("assigned_to", *filter.AssignedTo)
	}
	if filter.Type != nil {
		add("activity_type", string(*filter.Type))
	}
	if filter.Status != nil {
		add("status", string(*filter.Status))
	}

	query := "SELECT " + activityColumns + " FROM employee_activities WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY seq ASC"
	return query, args
}

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var (
		a            domain.Activity
		activityType string
		status       string
		commentText  *string
		commentDate  *time.Time
	)
	err := row.Scan(
		&a.ID, &a.Seq, &a.ServiceRequestID, &activityType, &a.ProcessingEmployeeID, &a.AssignedBy,
		&a.AssignedTo, &commentText, &commentDate, &status, &a.StartTime, &a.EndTime, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, err
		}
		return domain.Activity{}, fmt.Errorf("failed to scan activity: %w", err)
	}

	var ok bool
	if a.Type, ok = domain.ParseActivityType(activityType); !ok {
		return domain.Activity{}, fmt.Errorf("activity %s has unknown type %q", a.ID, activityType)
	}
	if a.Status, ok = domain.ParseActivityStatus(status); !ok {
		return domain.Activity{}, fmt.Errorf("activity %s has unknown status %q", a.ID, status)
	}
	if commentText != nil {
		c := domain.Comment{Text: *commentText}
		if commentDate != nil {
			c.Date = *commentDate
		}
		a.Comments = &c
	}
	if err := a.CheckShape(); err != nil {
		return domain.Activity{}, fmt.Errorf("activity %s is malformed: %v", a.ID, err)
	}
	return a, nil
}
