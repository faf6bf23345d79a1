//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"routebook/internal/models"
	"routebook/internal/repositories"
	"routebook/pkg/database"
	"routebook/pkg/logger"
)

func startMongo(t *testing.T) *database.MongoDB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start MongoDB container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate MongoDB container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	var db *database.MongoDB
	require.Eventually(t, func() bool {
		db, err = database.NewMongoDB(ctx, &database.MongoConfig{
			URI:            fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
			Database:       "routebook_test",
			MaxPoolSize:    10,
			ConnectTimeout: 5 * time.Second,
			SocketTimeout:  5 * time.Second,
		})
		return err == nil
	}, 30*time.Second, time.Second, "MongoDB not ready for connections")
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestRouteRepositoryAgainstMongo(t *testing.T) {
	ctx := context.Background()
	db := startMongo(t)
	log := logger.Discard()

	require.NoError(t, database.NewMigrator(db.Database, repositories.DefaultRoutesCollection, log).Up(ctx))

	cursor, err := db.Database.Collection(repositories.DefaultRoutesCollection).Indexes().List(ctx)
	require.NoError(t, err)
	var indexes []bson.M
	require.NoError(t, cursor.All(ctx, &indexes))
	names := make([]string, 0, len(indexes))
	for _, index := range indexes {
		names = append(names, index["name"].(string))
	}
	assert.Contains(t, names, "owner_id_1_created_at_-1")

	repo := repositories.NewRouteRepository(NewDocumentStore(db.Database), repositories.DefaultRoutesCollection, log)
	route := &models.ComputedRoute{
		StartAddress: "Москва",
		EndAddress:   "Санкт-Петербург",
		Mode:         models.TravelModeCar,
		Result: &models.RouteResult{
			Routes: []models.RoutePath{{
				Duration: 30241.4,
				Distance: 635012.3,
				Geometry: models.Geometry{Type: "LineString", Coordinates: []models.Position{{37.6173, 55.7558}, {30.3351, 59.9343}}},
			}},
			Waypoints: []models.Waypoint{{Location: models.Position{37.6173, 55.7558}}, {Location: models.Position{30.3351, 59.9343}}},
		},
	}

	first, err := repo.Save(ctx, route, "user-42")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := repo.Save(ctx, route, "user-42")
	require.NoError(t, err)
	_, err = repo.Save(ctx, route, "user-7")
	require.NoError(t, err)

	loaded, err := repo.LoadAll(ctx, "user-42")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, second, loaded[0].ID)
	assert.Equal(t, first, loaded[1].ID)
	assert.Equal(t, time.UTC, loaded[0].CreatedAt.Location())
	assert.Equal(t, route.Result.Routes[0].Geometry, loaded[0].Path[0].Geometry)

	require.ErrorIs(t, repo.Delete(ctx, first, "user-7"), models.ErrNotOwner)
	require.NoError(t, repo.Delete(ctx, first, "user-42"))
	require.ErrorIs(t, repo.Delete(ctx, first, "user-42"), models.ErrRouteNotFound)

	count, err := db.Database.Collection(repositories.DefaultRoutesCollection).CountDocuments(ctx, bson.M{"owner_id": "user-42"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, database.NewMigrator(db.Database, repositories.DefaultRoutesCollection, log).Down(ctx, 0))
	_, err = db.Database.Collection(repositories.DefaultRoutesCollection).Indexes().DropOne(ctx, "owner_id_1_created_at_-1")
	var cmdErr mongo.CommandError
	assert.ErrorAs(t, err, &cmdErr)
}
