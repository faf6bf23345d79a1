package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"routebook/internal/models"
	"routebook/internal/repositories/interfaces"
	"routebook/pkg/logger"
)

const DefaultRoutesCollection = "routes"

// Stored field names of a saved route record.
const (
	FieldOwnerID          = "owner_id"
	FieldCreatedAt        = "created_at"
	FieldStartAddress     = "start_address"
	FieldEndAddress       = "end_address"
	FieldMode             = "mode"
	FieldEncodedPath      = "encoded_path"
	FieldEncodedWaypoints = "encoded_waypoints"
	FieldDuration         = "duration"
	FieldDistance         = "distance"
)

type routeRepository struct {
	store      interfaces.DocumentStore
	collection string
	codec      RouteCodec
	logger     *logger.Logger
	now        func() time.Time
}

func NewRouteRepository(store interfaces.DocumentStore, collection string, log *logger.Logger) interfaces.RouteRepository {
	if collection == "" {
		collection = DefaultRoutesCollection
	}
	return &routeRepository{
		store:      store,
		collection: collection,
		logger:     log,
		now:        time.Now,
	}
}

func (r *routeRepository) Save(ctx context.Context, route *models.ComputedRoute, ownerID string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", models.ErrMissingOwner
	}
	if route == nil {
		return "", errors.New("route is required")
	}

	record, err := r.buildRecord(route, ownerID)
	if err != nil {
		return "", err
	}

	id, err := r.store.Insert(ctx, r.collection, recordFields(record))
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert route: %w", models.ErrPersistence, err)
	}

	r.logger.WithOwnerID(ownerID).WithRouteID(id).Debug("Route saved")

	return id, nil
}

func (r *routeRepository) buildRecord(route *models.ComputedRoute, ownerID string) (*models.SavedRouteRecord, error) {
	record := &models.SavedRouteRecord{
		OwnerID:      ownerID,
		CreatedAt:    r.now().UTC(),
		StartAddress: route.StartAddress,
		EndAddress:   route.EndAddress,
		Mode:         route.Mode,
	}

	if route.Result == nil {
		return record, nil
	}

	// With a result present both sides are stored, a missing side as [].
	paths, waypoints := route.Result.Routes, route.Result.Waypoints
	if paths == nil {
		paths = []models.RoutePath{}
	}
	if waypoints == nil {
		waypoints = []models.Waypoint{}
	}

	encodedPath, encodedWaypoints, err := r.codec.Encode(paths, waypoints)
	if err != nil {
		return nil, err
	}
	record.EncodedPath = encodedPath
	record.EncodedWaypoints = encodedWaypoints

	if first, ok := route.Result.FirstPath(); ok {
		duration, distance := first.Duration, first.Distance
		record.Duration = &duration
		record.Distance = &distance
	}

	return record, nil
}

func recordFields(record *models.SavedRouteRecord) map[string]interface{} {
	fields := map[string]interface{}{
		FieldOwnerID:          record.OwnerID,
		FieldCreatedAt:        record.CreatedAt,
		FieldStartAddress:     record.StartAddress,
		FieldEndAddress:       record.EndAddress,
		FieldMode:             string(record.Mode),
		FieldEncodedPath:      nil,
		FieldEncodedWaypoints: nil,
	}
	if record.EncodedPath != nil {
		fields[FieldEncodedPath] = *record.EncodedPath
	}
	if record.EncodedWaypoints != nil {
		fields[FieldEncodedWaypoints] = *record.EncodedWaypoints
	}
	if record.Duration != nil {
		fields[FieldDuration] = *record.Duration
	}
	if record.Distance != nil {
		fields[FieldDistance] = *record.Distance
	}
	return fields
}

func (r *routeRepository) LoadAll(ctx context.Context, ownerID string) ([]models.LoadedRoute, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []models.LoadedRoute{}, nil
	}

	docs, err := r.store.Query(ctx, r.collection,
		map[string]interface{}{FieldOwnerID: ownerID},
		interfaces.OrderBy{Field: FieldCreatedAt, Direction: interfaces.Descending},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query routes: %w", models.ErrPersistence, err)
	}

	routes := make([]models.LoadedRoute, 0, len(docs))
	for _, doc := range docs {
		loaded, err := r.loadRecord(doc)
		if err != nil {
			r.logger.WithOwnerID(ownerID).WithRouteID(doc.ID).WithError(err).Error("Skipping corrupt route record")
			continue
		}
		routes = append(routes, *loaded)
	}

	return routes, nil
}

func (r *routeRepository) loadRecord(doc interfaces.Document) (*models.LoadedRoute, error) {
	record, err := recordFromDocument(doc)
	if err != nil {
		return nil, err
	}

	path, waypoints, err := r.codec.Decode(record.EncodedPath, record.EncodedWaypoints)
	if err != nil {
		return nil, err
	}

	return &models.LoadedRoute{
		ID:           record.ID,
		OwnerID:      record.OwnerID,
		CreatedAt:    record.CreatedAt,
		StartAddress: record.StartAddress,
		EndAddress:   record.EndAddress,
		Mode:         record.Mode,
		Path:         path,
		Waypoints:    waypoints,
		Duration:     record.Duration,
		Distance:     record.Distance,
	}, nil
}

func recordFromDocument(doc interfaces.Document) (*models.SavedRouteRecord, error) {
	record := &models.SavedRouteRecord{
		ID:           doc.ID,
		OwnerID:      stringField(doc.Fields, FieldOwnerID),
		StartAddress: stringField(doc.Fields, FieldStartAddress),
		EndAddress:   stringField(doc.Fields, FieldEndAddress),
		Mode:         models.TravelMode(stringField(doc.Fields, FieldMode)),
		Duration:     numberField(doc.Fields, FieldDuration),
		Distance:     numberField(doc.Fields, FieldDistance),
	}

	// Anything other than a time.Time leaves CreatedAt zero; date filtering
	// excludes such records.
	if createdAt, ok := doc.Fields[FieldCreatedAt].(time.Time); ok {
		record.CreatedAt = createdAt.UTC()
	}

	var err error
	if record.EncodedPath, err = encodedField(doc.Fields, FieldEncodedPath); err != nil {
		return nil, err
	}
	if record.EncodedWaypoints, err = encodedField(doc.Fields, FieldEncodedWaypoints); err != nil {
		return nil, err
	}

	return record, nil
}

func stringField(fields map[string]interface{}, key string) string {
	value, _ := fields[key].(string)
	return value
}

func encodedField(fields map[string]interface{}, key string) (*string, error) {
	switch value := fields[key].(type) {
	case nil:
		return nil, nil
	case string:
		return &value, nil
	default:
		return nil, fmt.Errorf("%w: %s has type %T", models.ErrCorruptRouteData, key, value)
	}
}

// numberField returns nil for absent, non-numeric, non-finite or negative values.
func numberField(fields map[string]interface{}, key string) *float64 {
	var value float64
	switch v := fields[key].(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int32:
		value = float64(v)
	case int64:
		value = float64(v)
	default:
		return nil
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil
	}
	return &value
}

func (r *routeRepository) Delete(ctx context.Context, recordID, requesterID string) error {
	if strings.TrimSpace(requesterID) == "" {
		return models.ErrMissingOwner
	}
	if strings.TrimSpace(recordID) == "" {
		return models.ErrRouteNotFound
	}

	doc, err := r.store.Get(ctx, r.collection, recordID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: %s", models.ErrRouteNotFound, recordID)
		}
		return fmt.Errorf("%w: failed to load route: %w", models.ErrPersistence, err)
	}

	if owner := stringField(doc.Fields, FieldOwnerID); owner != requesterID {
		return models.ErrNotOwner
	}

	if err := r.store.DeleteByID(ctx, r.collection, recordID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: %s", models.ErrRouteNotFound, recordID)
		}
		return fmt.Errorf("%w: failed to delete route: %w", models.ErrPersistence, err)
	}

	r.logger.WithOwnerID(requesterID).WithRouteID(recordID).Debug("Route deleted")

	return nil
}
