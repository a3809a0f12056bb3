package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhvplatform/go-reminder-engine/internal/kv"
	"github.com/vhvplatform/go-reminder-engine/internal/shared/logger"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("kv unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("kv unavailable")
}

func newTestRegistry(t *testing.T) (*Registry, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	reg := NewRegistry(mem, "user-1", logger.NewLogger("registry-test"))
	reg.Initialize(context.Background())
	return reg, mem
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	reg.Add(ctx, "n-1")
	reg.Add(ctx, "n-2")
	reg.Add(ctx, "n-3")

	assert.Equal(t, []string{"n-1", "n-2", "n-3"}, reg.All())
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	reg.Add(ctx, "n-1")
	reg.Add(ctx, "n-2")
	reg.Remove(ctx, "n-1")

	assert.Equal(t, []string{"n-2"}, reg.All())
	assert.False(t, reg.Contains("n-1"))
	assert.True(t, reg.Contains("n-2"))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	reg, mem := newTestRegistry(t)

	reg.Add(ctx, "n-1")
	reg.Add(ctx, "n-2")
	reg.Clear(ctx)

	assert.Empty(t, reg.All())

	raw, ok, err := mem.Get(ctx, "owned_notification_ids:user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestInitialize_LoadsPersistedSequence(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, "owned_notification_ids:user-1", `["a","b"]`))

	reg := NewRegistry(mem, "user-1", logger.NewLogger("registry-test"))
	reg.Initialize(ctx)

	assert.Equal(t, []string{"a", "b"}, reg.All())
}

func TestInitialize_MalformedDataStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, "owned_notification_ids:user-1", `{oops`))

	reg := NewRegistry(mem, "user-1", logger.NewLogger("registry-test"))
	reg.Initialize(ctx)

	assert.Empty(t, reg.All())
}

func TestInitialize_LoadFailureStartsEmpty(t *testing.T) {
	reg := NewRegistry(failingKV{}, "user-1", logger.NewLogger("registry-test"))
	reg.Initialize(context.Background())

	assert.Empty(t, reg.All())
}

func TestAll_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)
	reg.Add(ctx, "n-1")

	ids := reg.All()
	ids[0] = "mutated"

	assert.Equal(t, []string{"n-1"}, reg.All())
}
