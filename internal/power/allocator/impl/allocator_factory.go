package impl

import (
	"github.com/go-redis/redis/v7"

	"github.com/Shopify/gorepower/internal/power/allocator"
)

// Returns RedisAllocator publishing under keyPrefix, or the default prefix when empty.
func MakeRedisAllocator(client *redis.Client, keyPrefix string) allocator.Allocator {
	if keyPrefix == "" {
		keyPrefix = DefaultAllocationKeyPrefix
	}
	return &RedisAllocator{RedisClient: client, KeyPrefix: keyPrefix}
}

// Returns the sole target unwrapped, or a FanoutAllocator over all non-nil targets.
func MakeFanoutAllocator(targets ...allocator.Allocator) allocator.Allocator {
	kept := make([]allocator.Allocator, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			kept = append(kept, t)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &FanoutAllocator{targets: kept}
}
