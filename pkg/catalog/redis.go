package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/netman-network/netman/pkg/util"
)

// DefaultRedisPrefix is the key prefix of catalog hashes. Each device type is
// stored as a hash at "<prefix>|<device_type>" with command -> response fields.
const DefaultRedisPrefix = "SIM_RESPONSES"

// HashReader is the subset of *redis.Client used to read catalog hashes.
type HashReader interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
}

// LoadRedis reads every "<prefix>|*" hash into one Document. Redis hashes carry
// no field order, so device types and commands are sorted to keep prefix
// matching deterministic.
func LoadRedis(ctx context.Context, client HashReader, prefix string) (*Document, error) {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	keys, err := scanKeys(ctx, client, prefix+"|*")
	if err != nil {
		return nil, fmt.Errorf("scanning catalog keys: %w", err)
	}
	sort.Strings(keys)

	doc := &Document{Name: "redis:" + prefix}
	for _, key := range keys {
		deviceType := strings.TrimPrefix(key, prefix+"|")
		if deviceType == "" {
			return nil, util.NewCatalogError(doc.Name, 0, "empty device type in key "+key)
		}

		fields, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		commands := make([]string, 0, len(fields))
		for cmd := range fields {
			commands = append(commands, cmd)
		}
		sort.Strings(commands)
		for _, cmd := range commands {
			doc.Add(deviceType, cmd, fields[cmd])
		}
	}

	util.WithSource(doc.Name).Debugf("loaded %d canned responses", doc.Len())
	return doc, nil
}

func scanKeys(ctx context.Context, client HashReader, pattern string) ([]string, error) {
	var (
		all    []string
		cursor uint64
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		all = append(all, keys...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return dedupe(all), nil
}

// dedupe removes repeats; SCAN may return a key more than once.
func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
