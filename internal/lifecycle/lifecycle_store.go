package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	lifecycleerrors "worksphere/internal/lifecycle/errors"
)

const (
	instanceKeyPrefix = "lifecycle:payment-request:"
	lockKeyPrefix     = "lifecycle:lock:"

	InstanceTTL = 30 * time.Minute
	LockTTL     = 30 * time.Second
)

// unlockScript deletes the lock only while it still holds our token.
const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`

//go:generate mockgen -source=lifecycle_store.go -destination=mock/lifecycle_store_mock.go -package=mock
type Store interface {
	// Get returns a Pending instance when none is stored.
	Get(ctx context.Context, requestID string) (Instance, error)
	Save(ctx context.Context, inst Instance) error
	Delete(ctx context.Context, requestID string) error
	// Lock serialises operations on one request. It fails with
	// ErrOperationInProgress while another holder has the lock.
	Lock(ctx context.Context, requestID string) (unlock func(), err error)
}

type redisStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRedisStore(rdb redis.Cmdable) Store {
	return &redisStore{rdb: rdb, now: time.Now}
}

func InstanceKey(requestID string) string {
	return instanceKeyPrefix + requestID
}

func LockKey(requestID string) string {
	return lockKeyPrefix + requestID
}

func (s *redisStore) Get(ctx context.Context, requestID string) (Instance, error) {
	raw, err := s.rdb.Get(ctx, InstanceKey(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return pendingInstance(requestID), nil
	}
	if err != nil {
		return Instance{}, err
	}

	var inst Instance
	if err := json.Unmarshal(raw, &inst); err != nil {
		return Instance{}, err
	}
	return inst, nil
}

func (s *redisStore) Save(ctx context.Context, inst Instance) error {
	if inst.State == StatePending && inst.IntentID == "" {
		return s.Delete(ctx, inst.RequestID)
	}

	inst.UpdatedAt = s.now().UTC()
	payload, err := json.Marshal(inst)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, InstanceKey(inst.RequestID), payload, InstanceTTL).Err()
}

func (s *redisStore) Delete(ctx context.Context, requestID string) error {
	return s.rdb.Del(ctx, InstanceKey(requestID)).Err()
}

func (s *redisStore) Lock(ctx context.Context, requestID string) (func(), error) {
	key := LockKey(requestID)
	token := uuid.NewString()

	ok, err := s.rdb.SetNX(ctx, key, token, LockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lifecycleerrors.ErrOperationInProgress
	}

	release := context.WithoutCancel(ctx)
	return func() {
		s.rdb.Eval(release, unlockScript, []string{key}, token)
	}, nil
}
