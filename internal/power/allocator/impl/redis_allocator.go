package impl

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"

	"github.com/Shopify/gorepower/internal/entity"
	"github.com/Shopify/gorepower/internal/metrics"
)

const DefaultAllocationKeyPrefix = "gorepower:allocation"

// hashWriter is the slice of the redis client the allocator needs.
type hashWriter interface {
	HSet(key string, values ...interface{}) *redis.IntCmd
}

// RedisAllocator publishes allocation levels into one redis hash per region,
// keyed by entity id. Writes are buffered and sent with one HSET per region
// on Flush. Not bothering with a mutex since only the tick goroutine invokes it.
type RedisAllocator struct {
	RedisClient hashWriter
	KeyPrefix   string

	pending map[entity.RegionID]map[entity.ID]float64
}

func (ra *RedisAllocator) SetAllocation(e entity.Entity, level float64) {
	if !entity.Alive(e) {
		return
	}
	region, _ := e.Region()
	if ra.pending == nil {
		ra.pending = make(map[entity.RegionID]map[entity.ID]float64)
	}
	fields, ok := ra.pending[region]
	if !ok {
		fields = make(map[entity.ID]float64)
		ra.pending[region] = fields
	}
	fields[e.ID()] = level
}

// Pending returns the number of buffered writes.
func (ra *RedisAllocator) Pending() int {
	n := 0
	for _, fields := range ra.pending {
		n += len(fields)
	}
	return n
}

// Flush sends buffered writes. The buffer is dropped even when a write fails,
// the next tick rewrites every level anyway.
func (ra *RedisAllocator) Flush() error {
	if len(ra.pending) == 0 {
		return nil
	}
	defer metrics.BenchmarkMethod(time.Now(), "redis_allocator.flush", nil)
	pending := ra.pending
	ra.pending = nil

	regions := make([]entity.RegionID, 0, len(pending))
	for region := range pending {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })

	var firstErr error
	for _, region := range regions {
		fields := pending[region]
		values := make([]interface{}, 0, 2*len(fields))
		for id, level := range fields {
			values = append(values, string(id), strconv.FormatFloat(level, 'f', -1, 64))
		}
		key := ra.key(region)
		if err := ra.RedisClient.HSet(key, values...).Err(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "writing allocations to %s", key)
		}
	}
	metrics.Count("redis_allocator.regions_flushed", int64(len(regions)), nil)
	return firstErr
}

func (ra *RedisAllocator) key(region entity.RegionID) string {
	return fmt.Sprintf("%s:%s", ra.KeyPrefix, region)
}
