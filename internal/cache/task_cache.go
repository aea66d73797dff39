package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/repo"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "task:"
	keyGeneration = "task:gen"
)

// TaskCache caches task lists and single tasks in Redis.
//
// Every entry is keyed under the current generation. A write bumps the
// generation, so a read that loaded its row before the write can only store it
// under a generation nobody reads any more.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current cache generation. It is 0 until the first write.
func (c *TaskCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func genPrefix(gen int64) string {
	return keyPrefix + strconv.FormatInt(gen, 10) + ":"
}

// ListKey identifies a list result by generation and by the statement it was
// read with, so filters that normalize to the same query share an entry.
func ListKey(gen int64, f dom.TaskFilter) string {
	stmt := repo.BuildListQuery(f)
	h := xxhash.New()
	_, _ = h.WriteString(stmt.SQL)
	for _, a := range stmt.Args {
		_, _ = fmt.Fprintf(h, "|%v", a)
	}
	return genPrefix(gen) + "list:" + strconv.FormatUint(h.Sum64(), 16)
}

// TaskKey identifies a single task within a generation.
func TaskKey(gen, id int64) string {
	return genPrefix(gen) + "item:" + strconv.FormatInt(id, 10)
}

// GetList returns the cached list or nil on a miss.
func (c *TaskCache) GetList(ctx context.Context, gen int64, f dom.TaskFilter) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, ListKey(gen, f)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]dom.Task, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores a list result.
func (c *TaskCache) SetList(ctx context.Context, gen int64, f dom.TaskFilter, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ListKey(gen, f), b, c.ttl).Err()
}

// GetTask returns the cached task; ok is false on a miss.
func (c *TaskCache) GetTask(ctx context.Context, gen, id int64) (t dom.Task, ok bool, err error) {
	b, err := c.rdb.Get(ctx, TaskKey(gen, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dom.Task{}, false, nil
	}
	if err != nil {
		return dom.Task{}, false, err
	}
	if err := json.Unmarshal(b, &t); err != nil {
		return dom.Task{}, false, err
	}
	return t, true, nil
}

// SetTask stores a single task.
func (c *TaskCache) SetTask(ctx context.Context, gen int64, t dom.Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, TaskKey(gen, t.ID), b, c.ttl).Err()
}

// Invalidate starts a new generation and drops the entries of the previous one.
// Entries of older generations left behind by racing reads expire with their TTL.
func (c *TaskCache) Invalidate(ctx context.Context) error {
	gen, err := c.rdb.Incr(ctx, keyGeneration).Result()
	if err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, genPrefix(gen-1)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Ping checks the Redis connection.
func (c *TaskCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
