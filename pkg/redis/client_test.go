package redis

import (
	"context"
	"net"
	"testing"

	"github.com/GunarsK-portfolio/review-service/internal/config"
	"github.com/alicebob/miniredis/v2"
)

func TestNewClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	host, port, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("SplitHostPort() error = %v", err)
	}

	client, err := NewClient(context.Background(), &config.Config{RedisHost: host, RedisPort: port})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("stored value = %q, want v", got)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := net.SplitHostPort(mr.Addr())
	mr.Close()

	if _, err := NewClient(context.Background(), &config.Config{RedisHost: host, RedisPort: port}); err == nil {
		t.Error("NewClient() should fail when redis is unreachable")
	}
}
