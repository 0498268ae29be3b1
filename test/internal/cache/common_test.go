package cache

import (
	"context"
	"log"
	"os"
	"testing"

	"flytau/test/internal/testutil"

	"github.com/redis/go-redis/v9"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedisOnly()
	if err != nil {
		log.Fatalf("Failed to setup test redis: %v", err)
	}
	testRdb = rdb

	log.Println("Running cache tests...")
	code := m.Run()

	cleanup()
	os.Exit(code)
}

func flushRedis(t *testing.T) {
	t.Helper()
	if err := testRdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
}
