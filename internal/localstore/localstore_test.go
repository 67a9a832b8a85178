package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pageza/recetario/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, KeyTheme, "dark"))
	v, ok, err := kv.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, kv.Set(ctx, KeyTheme, "light"))
	v, _, err = kv.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFileKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "local.yaml")
	f, err := OpenFile(path)
	require.NoError(t, err)
	exerciseKV(t, f)

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestRedisKV(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseKV(t, NewRedis(client, "client-a"))

	got, err := mr.Get("client-a:theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got)

	_, ok, err := NewRedis(client, "client-b").Get(context.Background(), KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	p := NewPreferences(kv)

	theme, err := p.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	theme, err = p.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
	theme, err = p.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	size, err := p.FontSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.FontMedium, size)

	require.NoError(t, p.SetFontSize(ctx, model.FontLarge))
	size, err = p.FontSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.FontLarge, size)

	require.NoError(t, kv.Set(ctx, KeyFontSize, "gigantic"))
	size, err = p.FontSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.FontMedium, size)
}

func TestReactionLogClaimOnce(t *testing.T) {
	ctx := context.Background()
	l := NewReactionLog(NewMemory())

	var calls int
	apply := func(context.Context) error { calls++; return nil }

	stored, applied, err := l.Claim(ctx, "t1", model.ReactionLove, apply)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, model.ReactionLove, stored)

	stored, applied, err = l.Claim(ctx, "t1", model.ReactionWow, apply)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, model.ReactionLove, stored)
	assert.Equal(t, 1, calls)

	r, ok, err := l.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.ReactionLove, r)
}

func TestReactionLogFailedApplyLeavesNoEntry(t *testing.T) {
	ctx := context.Background()
	l := NewReactionLog(NewMemory())
	boom := errors.New("offline")

	_, applied, err := l.Claim(ctx, "t1", model.ReactionLike, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, applied)

	_, ok, err := l.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReactionLogConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	l := NewReactionLog(NewMemory())

	var applied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := l.Claim(ctx, "t1", model.ReactionLike, func(context.Context) error {
				applied.Add(1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), applied.Load())
}

func TestReactionLogIgnoresCorruptEntries(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, KeyTipReactions, `{"t1":"love","t2":"meh"}`))
	l := NewReactionLog(kv)

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Reaction{"t1": model.ReactionLove}, all)

	require.NoError(t, kv.Set(ctx, KeyTipReactions, `not json`))
	all, err = l.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
