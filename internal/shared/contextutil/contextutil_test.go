package contextutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"worksphere/internal/shared/contextutil"
)

func TestFields(t *testing.T) {
	t.Run("both present", func(t *testing.T) {
		ctx := contextutil.WithRequestID(context.Background(), "req-1")
		ctx = contextutil.WithUserID(ctx, "uid-jane")

		assert.Equal(t, []zap.Field{
			zap.String("request_id", "req-1"),
			zap.String("user_id", "uid-jane"),
		}, contextutil.Fields(ctx))
	})

	t.Run("anonymous request", func(t *testing.T) {
		ctx := contextutil.WithRequestID(context.Background(), "req-2")

		assert.Equal(t, []zap.Field{zap.String("request_id", "req-2")}, contextutil.Fields(ctx))
	})

	t.Run("empty context", func(t *testing.T) {
		assert.Empty(t, contextutil.Fields(context.Background()))
		assert.Equal(t, "", contextutil.GetUserID(context.Background()))
	})
}

func TestGetLogger_Fallbacks(t *testing.T) {
	def := zap.NewExample()
	scoped := zap.NewNop().Named("scoped")

	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
