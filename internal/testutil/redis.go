//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
)

// TestDB is the Redis database integration tests write to.
const TestDB = 9

// SeedRedis loads a JSON seed file into a Redis database.
// The JSON format is: { "PREFIX": { "key": { "field": "value", ... }, ... }, ... }
// Each entry becomes a Redis hash at key "PREFIX|key" with the given fields.
func SeedRedis(t *testing.T, addr string, db int, seedFile string) {
	t.Helper()

	data, err := os.ReadFile(seedFile)
	if err != nil {
		t.Fatalf("reading seed file %s: %v", seedFile, err)
	}

	var tables map[string]map[string]map[string]string
	if err := json.Unmarshal(data, &tables); err != nil {
		t.Fatalf("parsing seed file %s: %v", seedFile, err)
	}

	for prefix, entries := range tables {
		for key, fields := range entries {
			WriteHash(t, addr, db, prefix+"|"+key, fields)
		}
	}
}

// WriteHash writes fields to the hash at key.
func WriteHash(t *testing.T, addr string, db int, key string, fields map[string]string) {
	t.Helper()

	if len(fields) == 0 {
		return
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	if err := client.HSet(context.Background(), key, args...).Err(); err != nil {
		t.Fatalf("writing %s: %v", key, err)
	}
}

// FlushDB flushes a specific Redis database.
func FlushDB(t *testing.T, addr string, db int) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	defer client.Close()

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flushing DB %d: %v", db, err)
	}
}

// SetupCatalogDB flushes TestDB and seeds it with catalog.json.
func SetupCatalogDB(t *testing.T) {
	t.Helper()

	addr := RedisAddr()
	FlushDB(t, addr, TestDB)
	SeedRedis(t, addr, TestDB, SeedPath("catalog.json"))
}
