package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	_ "github.com/lib/pq"
)

func setupPQ(t *testing.T) *sql.DB {
	t.Helper()

	var db *sql.DB
	setupDatabase(t, func(dsn string) error {
		var err error
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	})
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func setupPGX(t *testing.T) *pgxpool.Pool {
	t.Helper()

	var db *pgxpool.Pool
	setupDatabase(t, func(dsn string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		var err error
		db, err = pgxpool.New(ctx, dsn)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	})
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})

	return db
}

func setupDatabase(t *testing.T, connect func(string) error) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct pool: %s", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %s", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=test",
			"POSTGRES_USER=test",
			"POSTGRES_DB=test",
			"listen_addresses='*'",
			"fsync='off'",
			"full_page_writes='off'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(120) //nolint:errcheck

	dsn := fmt.Sprintf("postgres://test:test@%s/test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		return connect(dsn)
	}); err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Fatalf("Could not purge resource: %s", err)
		}
	})
}

// createPlayersTable creates a players table with 10 players.
func createPlayersTable(t *testing.T, exec func(sql string) error) {
	t.Helper()

	if err := exec(`
		CREATE TABLE players (
			"id" serial PRIMARY KEY,
			"name" text NOT NULL,
			"level" int NOT NULL,
			"class" text NOT NULL,
			"mount" text
		);
	`); err != nil {
		t.Fatal(err)
	}
	if err := exec(`
		INSERT INTO players
			("id", "name",    "level", "class",   "mount") VALUES
			(1,    'Alice',   10,      'warrior', 'horse'),
			(2,    'Bob',     20,      'mage',    'horse'),
			(3,    'Charlie', 30,      'rogue',   NULL),
			(4,    'David',   40,      'warrior', NULL),
			(5,    'Eve',     50,      'mage',    'griffon'),
			(6,    'Frank',   60,      'rogue',   'griffon'),
			(7,    'Grace',   70,      'warrior', 'dragon'),
			(8,    'Hank',    80,      'mage',    'dragon'),
			(9,    'Ivy',     90,      'rogue',   'phoenix'),
			(10,   'Jack',    100,     'warrior', 'phoenix');
	`); err != nil {
		t.Fatal(err)
	}
	if err := exec(`SELECT setval('players_id_seq', 10)`); err != nil {
		t.Fatal(err)
	}
}
