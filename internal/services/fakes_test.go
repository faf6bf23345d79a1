package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"routebook/internal/models"
	"routebook/pkg/events"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	known   map[string]models.Coordinate
	errs    map[string]error
	calls   []string
	started chan string
	release chan struct{}
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		known: map[string]models.Coordinate{
			"Москва":          {Latitude: 55.7558, Longitude: 37.6173},
			"Санкт-Петербург": {Latitude: 59.9343, Longitude: 30.3351},
		},
		errs: map[string]error{},
	}
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	g.mu.Lock()
	g.calls = append(g.calls, address)
	started, release := g.started, g.release
	g.mu.Unlock()

	if started != nil {
		started <- address
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.Coordinate{}, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.errs[address]; ok {
		return models.Coordinate{}, err
	}
	if strings.TrimSpace(address) == "" {
		return models.Coordinate{}, models.ErrInvalidAddress
	}
	c, ok := g.known[address]
	if !ok {
		return models.Coordinate{}, models.ErrAddressNotFound
	}
	return c, nil
}

type fakeRouter struct {
	result *models.RouteResult
	err    error

	mu    sync.Mutex
	modes []models.TravelMode
	start models.Coordinate
	end   models.Coordinate
}

func (r *fakeRouter) Route(_ context.Context, start, end models.Coordinate, mode models.TravelMode) (*models.RouteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
	r.start, r.end = start, end
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

type fakeRepo struct {
	saved      []*models.ComputedRoute
	routes     []models.LoadedRoute
	saveErr    error
	loadErr    error
	deleteErr  error
	deleted    []string
	savedOwner string
}

func (r *fakeRepo) Save(_ context.Context, route *models.ComputedRoute, ownerID string) (string, error) {
	if ownerID == "" {
		return "", models.ErrMissingOwner
	}
	if route == nil {
		return "", errors.New("route is required")
	}
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.saved = append(r.saved, route)
	r.savedOwner = ownerID
	return "route-1", nil
}

func (r *fakeRepo) LoadAll(_ context.Context, ownerID string) ([]models.LoadedRoute, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	var out []models.LoadedRoute
	for _, route := range r.routes {
		if route.OwnerID == ownerID {
			out = append(out, route)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, recordID, requesterID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, recordID+"/"+requesterID)
	return nil
}

type recordingPublisher struct {
	err     error
	ctxErrs []error
	topics  []string
	keys   []string
	events []events.CloudEvent
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error {
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return p.err
}

type notification struct {
	ownerID     string
	messageType string
	data        interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifyOwner(ownerID, messageType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{ownerID: ownerID, messageType: messageType, data: data})
}
