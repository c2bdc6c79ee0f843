package lifecycle_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksphere/internal/lifecycle"
	lifecycleerrors "worksphere/internal/lifecycle/errors"
)

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("missing instance is pending", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(lifecycle.InstanceKey(id)).RedisNil()

		inst, err := lifecycle.NewRedisStore(rdb).Get(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, lifecycle.StatePending, inst.State)
		assert.Equal(t, id, inst.RequestID)
	})

	t.Run("stored instance", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		raw, _ := json.Marshal(lifecycle.Instance{
			RequestID:    id,
			State:        lifecycle.StateAwaitingConfirmation,
			IntentID:     "pi_1",
			ClientSecret: "secret",
		})
		mock.ExpectGet(lifecycle.InstanceKey(id)).SetVal(string(raw))

		inst, err := lifecycle.NewRedisStore(rdb).Get(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, lifecycle.StateAwaitingConfirmation, inst.State)
		assert.Equal(t, "pi_1", inst.IntentID)
		assert.False(t, inst.Confirmed())
	})
}

func TestRedisStore_Save(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("awaiting confirmation is stored with ttl", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSet(lifecycle.InstanceKey(id), `"state":"AwaitingConfirmation"`, lifecycle.InstanceTTL).SetVal("OK")

		err := lifecycle.NewRedisStore(rdb).Save(ctx, lifecycle.Instance{
			RequestID:    id,
			State:        lifecycle.StateAwaitingConfirmation,
			IntentID:     "pi_1",
			ClientSecret: "secret",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending without intent deletes the key", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectDel(lifecycle.InstanceKey(id)).SetVal(1)

		err := lifecycle.NewRedisStore(rdb).Save(ctx, lifecycle.Instance{RequestID: id, State: lifecycle.StatePending})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStore_Lock(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("held lock is a conflict", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX(lifecycle.LockKey(id), `.+`, lifecycle.LockTTL).SetVal(false)

		unlock, err := lifecycle.NewRedisStore(rdb).Lock(ctx, id)

		assert.Nil(t, unlock)
		assert.ErrorIs(t, err, lifecycleerrors.ErrOperationInProgress)
	})

	t.Run("free lock is taken", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX(lifecycle.LockKey(id), `.+`, lifecycle.LockTTL).SetVal(true)

		unlock, err := lifecycle.NewRedisStore(rdb).Lock(ctx, id)

		require.NoError(t, err)
		require.NotNil(t, unlock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
