package test

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	containerName    = "postgres"
	containerVersion = "14-alpine"

	postgresUser     = "postgres"
	postgresPassword = "localtest"
	postgresDatabase = "storekit_test"
)

// StartPostgresDB starts a disposable postgres container and returns the
// database URL to connect to it. The container is configured to expire so it
// gets reaped even if the test run is interrupted.
func StartPostgresDB(pool *dockertest.Pool) (string, func(), error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerVersion,
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", postgresUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", postgresPassword),
			fmt.Sprintf("POSTGRES_DB=%s", postgresDatabase),
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", func() {}, errors.Wrap(err, "error starting postgres container")
	}

	_ = resource.Expire(300)

	databaseUrl := fmt.Sprintf(
		"postgres://%s:%s@localhost:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		resource.GetPort("5432/tcp"),
		postgresDatabase,
	)

	closeFn := func() {
		_ = pool.Purge(resource)
	}

	return databaseUrl, closeFn, nil
}

// WaitForConnection blocks until the database accepts connections, returning
// an open handle.
func WaitForConnection(databaseUrl string) (*sql.DB, error) {
	var db *sql.DB
	err := retry(30, time.Second, func() error {
		var err error
		db, err = sql.Open("pgx", databaseUrl)
		if err != nil {
			return err
		}
		return db.Ping()
	})
	if err != nil {
		return nil, errors.Wrap(err, "timed out waiting for postgres")
	}
	return db, nil
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(delay)
	}
	return err
}
