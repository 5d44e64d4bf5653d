//go:build integration

package db

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/yigit/signupdesk/internal/app/migrations"
	"github.com/yigit/signupdesk/internal/config"
)

func startContainer(t *testing.T, pool *dockertest.Pool, opts *dockertest.RunOptions) *dockertest.Resource {
	t.Helper()
	resource, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start %s: %v", opts.Repository, err)
	}
	_ = resource.Expire(300)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	return resource
}

func newPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}
	pool.MaxWait = 90 * time.Second
	return pool
}

// exerciseStore runs the behaviour shared by every backend
func exerciseStore(t *testing.T, store DocumentStore) {
	t.Helper()
	ctx := context.Background()
	instructors := Namespace{Database: "studentSignup", Collection: "instructors"}
	students := Namespace{Database: "studentSignup", Collection: "students"}

	for _, name := range []string{"Ada", "Grace", "Ada"} {
		doc := &testDoc{ID: store.NewID(), Name: name, CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
		if err := store.InsertOne(ctx, students, doc); err != nil {
			t.Fatalf("InsertOne error: %v", err)
		}
	}

	var got []testDoc
	if err := store.FindAll(ctx, students, &got); err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(got) != 3 || got[0].Name != "Ada" || got[1].Name != "Grace" {
		t.Errorf("Unexpected documents %+v", got)
	}

	var none []testDoc
	if err := store.FindAll(ctx, instructors, &none); err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no instructors, got %d", len(none))
	}
}

func TestMongoStore(t *testing.T) {
	pool := newPool(t)
	resource := startContainer(t, pool, &dockertest.RunOptions{Repository: "mongo", Tag: "7"})
	uri := fmt.Sprintf("mongodb://localhost:%s", resource.GetPort("27017/tcp"))

	var store *MongoStore
	if err := pool.Retry(func() error {
		var err error
		store, err = NewMongoStore(context.Background(), uri, 5*time.Second)
		if err != nil {
			return err
		}
		return store.Ping(context.Background())
	}); err != nil {
		t.Fatalf("mongo not ready: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	pool := newPool(t)
	resource := startContainer(t, pool, &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env:        []string{"POSTGRES_PASSWORD=secret", "POSTGRES_DB=signup"},
	})

	cfg, err := config.LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	cfg.Database.Postgres.Port = resource.GetPort("5432/tcp")
	cfg.Database.Postgres.Password = "secret"

	var store *PostgresStore
	if err := pool.Retry(func() error {
		var err error
		store, err = NewPostgresStore(context.Background(), cfg)
		if err != nil {
			return err
		}
		if err := store.Ping(context.Background()); err != nil {
			store.Pool.Close()
			return err
		}
		return nil
	}); err != nil {
		t.Fatalf("postgres not ready: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	// A fresh migrator finds the migration recorded
	if err := migrations.NewMigrator(store.Pool).Up(context.Background()); err != nil {
		t.Fatalf("Second migration run error: %v", err)
	}

	exerciseStore(t, store)
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("could not reserve a port: %v", err)
	}
	defer l.Close()
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return port
}

func TestPostgresStore_SchemaCreatedOnceDatabaseIsBack(t *testing.T) {
	pool := newPool(t)
	port := freePort(t)

	cfg, err := config.LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	cfg.Database.Postgres.Host = "127.0.0.1"
	cfg.Database.Postgres.Port = port
	cfg.Database.Postgres.Password = "secret"
	cfg.Database.Postgres.MaxIdleConns = 0
	cfg.Database.ConnectTimeout = "2s"

	store, err := NewPostgresStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewPostgresStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	ns := Namespace{Database: "studentSignup", Collection: "students"}
	doc := &testDoc{ID: store.NewID(), Name: "Ada", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if err := store.InsertOne(context.Background(), ns, doc); err == nil {
		t.Fatal("Expected InsertOne to fail while the database is down")
	}

	startContainer(t, pool, &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env:        []string{"POSTGRES_PASSWORD=secret", "POSTGRES_DB=signup"},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "127.0.0.1", HostPort: port}},
		},
	})
	if err := pool.Retry(func() error { return store.Ping(context.Background()) }); err != nil {
		t.Fatalf("postgres not ready: %v", err)
	}

	exerciseStore(t, store)
}
