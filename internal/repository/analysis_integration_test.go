//go:build integration

package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/biomarker-analysis-core/internal/domain"
)

func generateTestPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(bytes)
}

func setupIntegrationDB(t *testing.T) (*DB, func()) {
	ctx := context.Background()
	testPassword := generateTestPassword()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := NewConnection(ctx, ConnectionConfig{
		Host:        host,
		Port:        port.Int(),
		Database:    "testdb",
		Username:    "testuser",
		Password:    testPassword,
		MaxConns:    10,
		MinConns:    2,
		MaxConnLife: time.Hour,
		MaxConnIdle: 30 * time.Minute,
		SSLMode:     "disable",
	}, logger)
	require.NoError(t, err)

	databaseURL := "postgres://testuser:" + testPassword + "@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	runner, err := NewMigrationRunner(databaseURL, "migrations", logger)
	require.NoError(t, err)
	require.NoError(t, runner.Up())

	cleanup := func() {
		runner.Close()
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	return db, cleanup
}

func TestAnalysisRepository_SaveAndGetByID(t *testing.T) {
	db, cleanup := setupIntegrationDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewAnalysisRepository(db.Pool, logger)

	result := domain.AnalysisResult{
		AnalysisID:    "analysis-1",
		OverallScore:  72.5,
		ResultVersion: "v1",
		Biomarkers:    []domain.BiomarkerScore{{Name: "glucose", Score: 60}},
		Clusters:      []domain.BiomarkerCluster{{ClusterID: "c1", Name: "Metabolic"}},
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, result))

	fetched, err := repo.GetByID(ctx, "analysis-1")
	require.NoError(t, err)
	require.Equal(t, result.AnalysisID, fetched.AnalysisID)
	require.InDelta(t, result.OverallScore, fetched.OverallScore, 0.001)
	require.Len(t, fetched.Biomarkers, 1)
	require.Len(t, fetched.Clusters, 1)
}

func TestAnalysisRepository_GetByID_NotFound(t *testing.T) {
	db, cleanup := setupIntegrationDB(t)
	defer cleanup()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	repo := NewAnalysisRepository(db.Pool, logger)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
