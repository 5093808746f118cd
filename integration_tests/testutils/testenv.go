package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/scorekeeper/config"
	"github.com/Black-And-White-Club/scorekeeper/db/bundb"
	"github.com/Black-And-White-Club/scorekeeper/integration_tests/containers"
	"github.com/Black-And-White-Club/scorekeeper/pkg/events"
)

// TestEnvironment holds the containers and connections shared by an
// integration test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	NatsConn      *nats.Conn
	JetStream     jetstream.JetStream
	Config        *config.Config
}

// NewTestEnvironment starts Postgres and NATS, runs every migration and
// returns a config pointing at both.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
	}
	if err := env.setupContainers(ctx); err != nil {
		cancel()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setupContainers(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		cleanupContainers(ctx, pgContainer, nil)
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		cleanupContainers(ctx, pgContainer, natsContainer)
		return fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bundb.BunDB(sqlDB)

	if err := runMigrations(ctx, env.DB, pgConnStr); err != nil {
		env.DB.Close()
		cleanupContainers(ctx, pgContainer, natsContainer)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	natsConn, err := nats.Connect(natsURL, nats.Timeout(10*time.Second))
	if err != nil {
		env.DB.Close()
		cleanupContainers(ctx, pgContainer, natsContainer)
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	env.NatsConn = natsConn

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		env.DB.Close()
		cleanupContainers(ctx, pgContainer, natsContainer)
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	env.JetStream = js

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: pgConnStr, Driver: bundb.DriverPostgres},
		NATS:     config.NATSConfig{URL: natsURL},
		JWT:      config.JWTConfig{Secret: "integration-secret", Issuer: "scorekeeper", DefaultTTL: time.Hour},
		HTTP:     config.HTTPConfig{Addr: "127.0.0.1:0", RateLimit: 1000, RateBurst: 1000},
		Scoring: config.ScoringConfig{
			InitialCapacity: 10,
			GrowthWindow:    10,
			CostPerByte:     1,
			InitialGrant:    1_000_000,
		},
		Queue: config.QueueConfig{Enabled: true, MaxWorkers: 2},
	}
	return nil
}

// DeepCleanup empties every table and stream between tests.
func (env *TestEnvironment) DeepCleanup() error {
	if err := env.ResetJetStreamState(env.Ctx, events.Streams()...); err != nil {
		return fmt.Errorf("failed to reset JetStream: %w", err)
	}
	if err := CleanupDatabase(env.Ctx, env.DB); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	return nil
}

// Cleanup tears down every resource created for the environment.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DB != nil {
		env.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cleanupContainers(ctx, env.PgContainer, env.NatsContainer)
	log.Println("Integration environment cleaned up")
}

func cleanupContainers(ctx context.Context, pg *postgres.PostgresContainer, natsContainer testcontainers.Container) {
	if pg != nil {
		if err := pg.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
	if natsContainer != nil {
		if err := natsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
}

// WaitFor polls check until it returns nil or timeout passes.
func WaitFor(timeout, interval time.Duration, check func() error) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		if lastErr = check(); lastErr == nil {
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("condition not met after %v: %w", timeout, lastErr)
}
