package repository

import (
	"context"
	"sync"
	"time"

	"repairshop_backend/internal/workflow/domain"

	"github.com/google/uuid"
)

// Memory is an in-process Transactor. Transactions are serialized and work on
// a staged copy of the state that replaces the committed state only when fn
// succeeds. It backs tests and local runs without PostgreSQL.
type Memory struct {
	mu    sync.Mutex
	state *memoryState
	now   func() time.Time
}

type memoryState struct {
	requests   map[uuid.UUID]domain.ServiceRequest
	activities []domain.Activity
	seq        int64
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		state: &memoryState{requests: make(map[uuid.UUID]domain.ServiceRequest)},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryState) clone() *memoryState {
	out := &memoryState{
		requests:   make(map[uuid.UUID]domain.ServiceRequest, len(s.requests)),
		activities: make([]domain.Activity, len(s.activities)),
		seq:        s.seq,
	}
	for id, req := range s.requests {
		out.requests[id] = copyRequest(req)
	}
	copy(out.activities, s.activities)
	return out
}

func copyRequest(req domain.ServiceRequest) domain.ServiceRequest {
	if req.Payments != nil {
		req.Payments = append([]domain.PaymentAttempt(nil), req.Payments...)
	}
	if req.Feedback != nil {
		fb := *req.Feedback
		req.Feedback = &fb
	}
	return req
}

// WithinTx runs fn against a staged copy and commits it if fn returns nil.
func (m *Memory) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.state.clone()
	if err := fn(ctx, &memoryStore{state: staged, now: m.now}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = staged
	return nil
}

func (m *Memory) direct() *memoryStore {
	return &memoryStore{state: m.state, now: m.now}
}

func (m *Memory) GetRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().GetRequest(ctx, id)
}

func (m *Memory) LockRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().LockRequest(ctx, id)
}

func (m *Memory) InsertRequest(ctx context.Context, req domain.ServiceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().InsertRequest(ctx, req)
}

func (m *Memory) UpdateRequest(ctx context.Context, req domain.ServiceRequest, expected domain.RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().UpdateRequest(ctx, req, expected)
}

func (m *Memory) InsertActivity(ctx context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().InsertActivity(ctx, a)
}

func (m *Memory) CompleteActivity(ctx context.Context, a domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().CompleteActivity(ctx, a)
}

func (m *Memory) GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().GetActivity(ctx, id)
}

func (m *Memory) ListActivities(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direct().ListActivities(ctx, filter)
}

// memoryStore operates on one state without locking; the owner holds the lock.
type memoryStore struct {
	state *memoryState
	now   func() time.Time
}

func (s *memoryStore) GetRequest(_ context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	req, ok := s.state.requests[id]
	if !ok {
		return domain.ServiceRequest{}, requestNotFound(id)
	}
	return copyRequest(req), nil
}

func (s *memoryStore) LockRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error) {
	return s.GetRequest(ctx, id)
}

func (s *memoryStore) InsertRequest(_ context.Context, req domain.ServiceRequest) error {
	if _, exists := s.state.requests[req.ID]; exists {
		return domain.InvalidField("service request " + req.ID.String() + " already exists")
	}
	s.state.requests[req.ID] = copyRequest(req)
	return nil
}

func (s *memoryStore) UpdateRequest(_ context.Context, req domain.ServiceRequest, expected domain.RequestStatus) error {
	current, ok := s.state.requests[req.ID]
	if !ok {
		return requestNotFound(req.ID)
	}
	if current.Status != expected {
		return statusMoved(req.ID, expected)
	}
	s.state.requests[req.ID] = copyRequest(req)
	return nil
}

func (s *memoryStore) InsertActivity(_ context.Context, a *domain.Activity) error {
	if _, ok := s.state.requests[a.ServiceRequestID]; !ok {
		return requestNotFound(a.ServiceRequestID)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.state.seq++
	a.Seq = s.state.seq
	a.CreatedAt = s.now()
	s.state.activities = append(s.state.activities, *a)
	return nil
}

func (s *memoryStore) CompleteActivity(_ context.Context, a domain.Activity) error {
	for i := range s.state.activities {
		if s.state.activities[i].ID != a.ID {
			continue
		}
		if !s.state.activities[i].IsOpen() {
			return activityNotOpen(a.ID)
		}
		s.state.activities[i].Status = a.Status
		s.state.activities[i].EndTime = a.EndTime
		return nil
	}
	return activityNotFound(a.ID)
}

func (s *memoryStore) GetActivity(_ context.Context, id uuid.UUID) (domain.Activity, error) {
	for _, a := range s.state.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Activity{}, activityNotFound(id)
}

func (s *memoryStore) ListActivities(_ context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0)
	for _, a := range s.state.activities {
		if matchesFilter(a, filter) {
			out = append(out, a)
		}
	}
	return out, nil
}

func matchesFilter(a domain.Activity, f ActivityFilter) bool {
	if a.ServiceRequestID != f.ServiceRequestID {
		return false
	}
	if f.ProcessingEmployeeID != nil && a.ProcessingEmployeeID != *f.ProcessingEmployeeID {
		return false
	}
	if f.AssignedTo != nil && (a.AssignedTo == nil || *a.AssignedTo != *f.AssignedTo) {
		return false
	}
	if f.Type != nil && a.Type != *f.Type {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	return true
}
