package redis

import (
	"testing"

	"pagelens-api/pkg/config"
)

func TestNewRedisCache_EmptyAddress(t *testing.T) {
	_, err := NewRedisCache(config.RedisConfig{})
	if err == nil {
		t.Fatal("expected error for empty redis address")
	}
	if err.Error() != "redis address cannot be empty" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestNewRedisCache_UnreachableServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection attempt in short mode")
	}
	_, err := NewRedisCache(config.RedisConfig{Address: "localhost:1"})
	if err == nil {
		t.Error("expected connection error for unreachable server")
	}
}
