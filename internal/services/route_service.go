package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"routebook/internal/models"
	"routebook/internal/repositories/interfaces"
	"routebook/pkg/logger"
	"routebook/pkg/maps"
)

type RouteServiceConfig struct {
	EventTopic string
	Location   *time.Location
}

type RouteService struct {
	geocoder maps.Geocoder
	router   maps.Router
	repo     interfaces.RouteRepository
	filter   *RouteFilter
	events   *routeEvents
	location *time.Location
	logger   *logger.Logger
	now      func() time.Time
}

// NewRouteService wires the route pipeline. publisher and notifier may be nil.
func NewRouteService(
	geocoder maps.Geocoder,
	router maps.Router,
	repo interfaces.RouteRepository,
	publisher EventPublisher,
	notifier RouteNotifier,
	config RouteServiceConfig,
	log *logger.Logger,
) *RouteService {
	topic := config.EventTopic
	if topic == "" {
		topic = DefaultRouteTopic
	}
	location := config.Location
	if location == nil {
		location = time.UTC
	}

	return &RouteService{
		geocoder: geocoder,
		router:   router,
		repo:     repo,
		filter:   NewRouteFilter(log),
		events: &routeEvents{
			publisher: publisher,
			notifier:  notifier,
			topic:     topic,
			logger:    log,
		},
		location: location,
		logger:   log,
		now:      time.Now,
	}
}

// ComputeRoute geocodes both addresses concurrently, then routes between
// them. A result without a first path comes back together with ErrNoRoute.
func (s *RouteService) ComputeRoute(ctx context.Context, req models.ComputeRequest) (*models.ComputedRoute, error) {
	mode := models.TravelMode(strings.TrimSpace(string(req.Mode)))
	if mode == "" {
		mode = models.TravelModeCar
	}

	var start, end models.Coordinate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		coordinate, err := s.geocoder.Geocode(gctx, req.StartAddress)
		if err != nil {
			return fmt.Errorf("failed to geocode start address: %w", err)
		}
		start = coordinate
		return nil
	})
	g.Go(func() error {
		coordinate, err := s.geocoder.Geocode(gctx, req.EndAddress)
		if err != nil {
			return fmt.Errorf("failed to geocode end address: %w", err)
		}
		end = coordinate
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := s.router.Route(ctx, start, end, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to compute route: %w", err)
	}

	computed := &models.ComputedRoute{
		StartAddress: req.StartAddress,
		EndAddress:   req.EndAddress,
		Mode:         mode,
		Start:        start,
		End:          end,
		Result:       result,
		Summary:      Summarize(req.StartAddress, req.EndAddress, result),
	}

	if _, ok := result.FirstPath(); !ok {
		return computed, models.ErrNoRoute
	}

	return computed, nil
}

func (s *RouteService) SaveRoute(ctx context.Context, route *models.ComputedRoute, ownerID string) (string, error) {
	if route != nil && route.Mode == "" {
		route.Mode = models.TravelModeCar
	}

	id, err := s.repo.Save(ctx, route, ownerID)
	if err != nil {
		return "", err
	}

	s.events.emit(ctx, RouteEvent{
		Type:         EventRouteSaved,
		RouteID:      id,
		OwnerID:      ownerID,
		Mode:         string(route.Mode),
		StartAddress: route.StartAddress,
		EndAddress:   route.EndAddress,
		OccurredAt:   s.now().UTC(),
	})

	return id, nil
}

func (s *RouteService) ListRoutes(ctx context.Context, ownerID string, criteria models.FilterCriteria) ([]models.LoadedRoute, error) {
	routes, err := s.repo.LoadAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.filter.Apply(routes, criteria), nil
}

func (s *RouteService) DeleteRoute(ctx context.Context, routeID, requesterID string) error {
	if err := s.repo.Delete(ctx, routeID, requesterID); err != nil {
		return err
	}

	s.events.emit(ctx, RouteEvent{
		Type:       EventRouteDeleted,
		RouteID:    routeID,
		OwnerID:    requesterID,
		OccurredAt: s.now().UTC(),
	})

	return nil
}

// RouteStats builds the profile statistics relative to the current time in
// the service location.
func (s *RouteService) RouteStats(ctx context.Context, ownerID string) ([]models.StatRow, error) {
	routes, err := s.repo.LoadAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return BuildStatRows(routes, s.now().In(s.location)), nil
}
