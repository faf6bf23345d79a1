package services

import (
	"context"
	"sync"

	"routebook/internal/models"
)

type RouteComputer interface {
	ComputeRoute(ctx context.Context, req models.ComputeRequest) (*models.ComputedRoute, error)
}

// PlanSession serialises route computations of one client so that only the
// latest request produces a result. Starting a computation cancels the
// previous one, and any result that is no longer the latest is reported as
// ErrSuperseded.
type PlanSession struct {
	computer RouteComputer

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewPlanSession(computer RouteComputer) *PlanSession {
	return &PlanSession{computer: computer}
}

// Compute runs the request and returns its result, or ErrSuperseded when a
// newer request started in the meantime.
func (s *PlanSession) Compute(ctx context.Context, req models.ComputeRequest) (*models.ComputedRoute, error) {
	var route *models.ComputedRoute
	var routeErr error
	if err := s.ComputeAndDeliver(ctx, req, func(r *models.ComputedRoute, err error) {
		route, routeErr = r, err
	}); err != nil {
		return nil, err
	}
	return route, routeErr
}

// ComputeAndDeliver hands the outcome to deliver only while it is still the
// latest request. The check and deliver run under the session lock, so no
// newer request can start, and no older result can be delivered after a newer
// one. deliver must not call back into the session.
func (s *PlanSession) ComputeAndDeliver(ctx context.Context, req models.ComputeRequest, deliver func(*models.ComputedRoute, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	route, err := s.computer.ComputeRoute(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return models.ErrSuperseded
	}
	s.cancel = nil
	deliver(route, err)
	return nil
}

// Close cancels the computation in flight, if any.
func (s *PlanSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
