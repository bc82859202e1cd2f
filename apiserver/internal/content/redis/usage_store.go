package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"github.com/postwright/postwright/apiserver/internal/content"
)

// Usage hashes expire well after the day they track ends. Day boundaries are
// UTC.
const usageKeyTTL = 48 * time.Hour

type usageStore struct {
	redisClient *redis.Client
}

// NewUsageStore returns a Redis-based implementation of the
// content.UsageStore interface. Counters are kept in per-user, per-day hashes
// that expire on their own.
func NewUsageStore(redisClient *redis.Client) content.UsageStore {
	return &usageStore{
		redisClient: redisClient,
	}
}

func (u *usageStore) Increment(
	_ context.Context,
	userID string,
	kind string,
) (int64, error) {
	key := usageKey(userID)
	pipeline := u.redisClient.TxPipeline()
	incr := pipeline.HIncrBy(key, kind, 1)
	pipeline.Expire(key, usageKeyTTL)
	if _, err := pipeline.Exec(); err != nil {
		return 0, errors.Wrapf(
			err,
			"error incrementing %s usage for user %q",
			kind,
			userID,
		)
	}
	return incr.Val(), nil
}

func (u *usageStore) Get(
	_ context.Context,
	userID string,
) (content.Usage, error) {
	usage := content.Usage{}
	counters, err := u.redisClient.HGetAll(usageKey(userID)).Result()
	if err != nil {
		return usage, errors.Wrapf(
			err,
			"error retrieving usage for user %q",
			userID,
		)
	}
	for kind, count := range counters {
		parsed, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			return usage, errors.Wrapf(
				err,
				"error parsing %s usage for user %q",
				kind,
				userID,
			)
		}
		switch kind {
		case content.UsageKindCaptions:
			usage.Captions = parsed
		case content.UsageKindHashtags:
			usage.Hashtags = parsed
		case content.UsageKindIdeas:
			usage.Ideas = parsed
		case content.UsageKindAnalyses:
			usage.Analyses = parsed
		}
	}
	return usage, nil
}

func usageKey(userID string) string {
	return fmt.Sprintf(
		"usage:%s:%s",
		userID,
		time.Now().UTC().Format("2006-01-02"),
	)
}
