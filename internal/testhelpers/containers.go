// Package testhelpers starts throwaway Redis and PostgreSQL containers for
// integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/alchemorsel-genai/backend/config"
)

// requireDocker skips container tests in -short mode or without docker.
func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

func terminateOnCleanup(t *testing.T, container testcontainers.Container) {
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})
}

func endpoint(t *testing.T, ctx context.Context, container testcontainers.Container, port nat.Port) (string, string) {
	t.Helper()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	return host, mapped.Port()
}

// StartRedis runs redis and returns a config whose Redis fields point at it.
func StartRedis(t *testing.T) *config.Config {
	t.Helper()
	requireDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	terminateOnCleanup(t, container)

	cfg := config.Defaults()
	cfg.RedisHost, cfg.RedisPort = endpoint(t, ctx, container, "6379/tcp")
	return cfg
}

// StartPostgres runs PostgreSQL and returns a config using the postgres
// history driver against it.
func StartPostgres(t *testing.T) *config.Config {
	t.Helper()
	requireDocker(t)
	ctx := context.Background()

	cfg := config.Defaults()
	cfg.DBDriver = config.DriverPostgres
	cfg.DBUser = "postgres"
	cfg.DBPassword = "postpass"
	cfg.DBName = "recipegen"
	cfg.DBSSLMode = "disable"

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     cfg.DBUser,
				"POSTGRES_PASSWORD": cfg.DBPassword,
				"POSTGRES_DB":       cfg.DBName,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
						cfg.DBUser, cfg.DBPassword, host, port.Port(), cfg.DBName, cfg.DBSSLMode)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	terminateOnCleanup(t, container)

	cfg.DBHost, cfg.DBPort = endpoint(t, ctx, container, "5432/tcp")
	return cfg
}
