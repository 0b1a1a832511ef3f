package db

import (
	"context"
	"testing"

	"github.com/NikJur/CoxOrb/internal/config"

	"github.com/alicebob/miniredis/v2"
)

func TestConnectRedisEmpty(t *testing.T) {
	cfg := config.Config{RedisAddr: ""}
	client := ConnectRedis(cfg)
	if client != nil {
		t.Fatalf("expected nil redis client when addr empty")
	}
}

func TestConnectRedisConfigured(t *testing.T) {
	s := miniredis.RunT(t)

	cfg := config.Config{RedisAddr: s.Addr()}
	client := ConnectRedis(cfg)
	if client == nil {
		t.Fatalf("expected redis client")
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	_ = client.Close()
}
