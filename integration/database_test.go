//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestMetalensWithMySQL tests the metalens CLI with a MySQL backend.
func TestMetalensWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "metalens",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/metalens?parseTime=true", host, port.Port())
	setBackendEnv(t, "mysql", connStr)

	runBackendScenario(t)
}

// TestMetalensWithPostgres tests the metalens CLI with a PostgreSQL backend.
func TestMetalensWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	setBackendEnv(t, "postgresql", connStr)

	runBackendScenario(t)
}

// setBackendEnv points both stores at the container for the test's lifetime.
func setBackendEnv(t *testing.T, backend, connStr string) {
	t.Helper()
	for key, value := range map[string]string{
		"METALENS_CACHE_BACKEND":       backend,
		"METALENS_CACHE_DB_CONNECT":    connStr,
		"METALENS_SNAPSHOT_BACKEND":    backend,
		"METALENS_SNAPSHOT_DB_CONNECT": connStr,
	} {
		_ = os.Setenv(key, value)
		key := key
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}
}

// runBackendScenario exercises the cache and snapshot surfaces against
// whichever backend the environment points at.
func runBackendScenario(t *testing.T) {
	t.Helper()
	matrix := writeMatrixFixture(t)

	_, err := runMetalensCommand(t, "cache", "clear")
	require.NoError(t, err)

	_, err = runMetalensCommand(t, "snapshots", "clear")
	require.NoError(t, err)

	_, err = runMetalensCommand(t, "snapshots", "migrate")
	require.NoError(t, err)

	_, err = runMetalensCommand(t, "stats", matrix, "--limit", "5")
	require.NoError(t, err)

	_, err = runMetalensCommand(t, "cache", "status")
	require.NoError(t, err)

	_, err = runMetalensCommand(t, "snapshots", "status")
	require.NoError(t, err)

	_, err = runMetalensCommand(t, "snapshots", "list")
	require.NoError(t, err)
}
