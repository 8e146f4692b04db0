package mystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps every entity under its own key mystore:<Kind>:<uid>. The set mystore:<Kind> indexes the uids.
type RedisStore[T any] struct {
	client   *redis.Client
	indexKey string
}

type redisTransaction struct {
	owner   any
	tx      *redis.Tx
	pending map[string][]byte
}

func NewRedisStore[T any](c context.Context, addr string) (*RedisStore[T], func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	err := client.Ping(c).Err()
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis at %s: %s", addr, err)
	}

	return &RedisStore[T]{
			client:   client,
			indexKey: "mystore:" + kindOf[T](),
		}, func() {
			client.Close()
		}, nil
}

func (s *RedisStore[T]) entityKey(uid string) string {
	return s.indexKey + ":" + uid
}

func (s *RedisStore[T]) transactionOf(c context.Context) *redisTransaction {
	t, ok := c.Value(ctxTransactionKey{}).(*redisTransaction)
	if !ok || t.owner != s {
		return nil
	}
	return t
}

// RunInTransaction watches only the keys read inside f, buffers writes and commits them in a single MULTI/EXEC.
// A concurrent modification of a watched key makes the attempt fail and f is run again.
func (s *RedisStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	var err error
	for i := 1; i <= maxTransactionAttempts; i++ {
		err = s.client.Watch(c, func(tx *redis.Tx) error {
			t := &redisTransaction{
				owner:   s,
				tx:      tx,
				pending: map[string][]byte{},
			}

			err := f(context.WithValue(c, ctxTransactionKey{}, t))
			if err != nil {
				return err
			}

			if len(t.pending) == 0 {
				return nil
			}

			_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
				for uid, data := range t.pending {
					pipe.Set(c, s.entityKey(uid), data, 0)
					pipe.SAdd(c, s.indexKey, uid)
				}
				return nil
			})
			return err
		})
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("Concurrent transaction on %s, retrying (%d of %d)", s.indexKey, i, maxTransactionAttempts)
			continue
		}
		return err
	}
	return err
}

func (s *RedisStore[T]) Put(c context.Context, uid string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding entity %s with uid %s: %s", s.indexKey, uid, err)
	}

	if t := s.transactionOf(c); t != nil {
		t.pending[uid] = data
		return nil
	}

	_, err = s.client.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.Set(c, s.entityKey(uid), data, 0)
		pipe.SAdd(c, s.indexKey, uid)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error storing entity %s with uid %s: %s", s.indexKey, uid, err)
	}

	return nil
}

func (s *RedisStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	var value T

	var data []byte
	var err error
	if t := s.transactionOf(c); t != nil {
		if pending, found := t.pending[uid]; found {
			data = pending
		} else {
			err = t.tx.Watch(c, s.entityKey(uid)).Err()
			if err != nil {
				return value, false, fmt.Errorf("error watching entity %s with uid %s: %s", s.indexKey, uid, err)
			}
			data, err = t.tx.Get(c, s.entityKey(uid)).Bytes()
		}
	} else {
		data, err = s.client.Get(c, s.entityKey(uid)).Bytes()
	}
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("error fetching entity %s with uid %s: %s", s.indexKey, uid, err)
	}

	err = json.Unmarshal(data, &value)
	if err != nil {
		return value, false, fmt.Errorf("error decoding entity %s with uid %s: %s", s.indexKey, uid, err)
	}

	return value, true, nil
}

func (s *RedisStore[T]) List(c context.Context) ([]T, error) {
	var cmd redis.Cmdable = s.client
	t := s.transactionOf(c)
	if t != nil {
		// a new uid in the index invalidates the listing
		err := t.tx.Watch(c, s.indexKey).Err()
		if err != nil {
			return nil, fmt.Errorf("error watching index %s: %s", s.indexKey, err)
		}
		cmd = t.tx
	}

	uids, err := cmd.SMembers(c, s.indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching uids of %s: %s", s.indexKey, err)
	}

	all := map[string][]byte{}
	if len(uids) > 0 {
		keys := make([]string, 0, len(uids))
		for _, uid := range uids {
			keys = append(keys, s.entityKey(uid))
		}
		values, err := cmd.MGet(c, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("error fetching all entities %s: %s", s.indexKey, err)
		}
		for i, v := range values {
			if str, ok := v.(string); ok {
				all[uids[i]] = []byte(str)
			}
		}
	}
	if t != nil {
		for uid, data := range t.pending {
			all[uid] = data
		}
	}

	result := make([]T, 0, len(all))
	for uid, data := range all {
		var value T
		err = json.Unmarshal(data, &value)
		if err != nil {
			return nil, fmt.Errorf("error decoding entity %s with uid %s: %s", s.indexKey, uid, err)
		}
		result = append(result, value)
	}

	return result, nil
}

// Query filters in process: equality filters only.
func (s *RedisStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	return filterAndSort(all, filters, orderByField)
}
