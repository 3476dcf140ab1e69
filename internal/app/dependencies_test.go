package app

import (
	"context"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNewDependencies_Memory(t *testing.T) {
	t.Parallel()

	deps, err := NewDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
	}, log.WithField("test", "dependencies"))
	if err != nil {
		t.Fatalf("NewDependencies(memory) failed: %v", err)
	}
	t.Cleanup(func() { _ = deps.Close() })

	if deps.Orders == nil {
		t.Error("Orders should not be nil")
	}
	if deps.Products == nil {
		t.Error("Products should not be nil")
	}
	if deps.Companies == nil {
		t.Error("Companies should not be nil")
	}
	if deps.Outbox == nil {
		t.Error("Outbox should not be nil")
	}
	if deps.StorageChecker == nil {
		t.Error("StorageChecker should not be nil")
	}
	if deps.Logger == nil {
		t.Error("Logger should not be nil")
	}
}

func TestNewDependencies_WithNilLogger(t *testing.T) {
	t.Parallel()

	deps, err := NewDependencies(context.Background(), Config{
		StorageDriver: StorageDriverMemory,
	}, nil)
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}
	t.Cleanup(func() { _ = deps.Close() })

	if deps.Logger == nil {
		t.Error("Logger should be initialized even when nil is passed")
	}
}

func TestNewDependencies_PostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := NewDependencies(context.Background(), Config{
		StorageDriver: StorageDriverPostgres,
	}, log.WithField("test", "postgres-missing-dsn"))
	if err == nil {
		t.Fatal("expected error when postgres driver is selected without DSN")
	}
}

func TestNewDependencies_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := NewDependencies(context.Background(), Config{
		StorageDriver: "sqlite",
	}, log.WithField("test", "unknown-driver"))
	if err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("expected unknown storage driver error, got %v", err)
	}
}

func TestDependencies_CloseNil(t *testing.T) {
	t.Parallel()

	var deps *Dependencies
	if err := deps.Close(); err != nil {
		t.Fatalf("closing nil dependencies should not fail: %v", err)
	}
}
