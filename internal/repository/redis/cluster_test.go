package redis

import (
	"context"
	"sync"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/domain/entity"
)

// multiKeyDelHook запоминает DEL с несколькими ключами: в кластере такие команды
// отклоняются с CROSSSLOT, если ключи попадают в разные слоты.
type multiKeyDelHook struct {
	mu   sync.Mutex
	seen [][]interface{}
}

func (h *multiKeyDelHook) check(cmd redis.Cmder) {
	if cmd.Name() == "del" && len(cmd.Args()) > 2 {
		h.mu.Lock()
		h.seen = append(h.seen, cmd.Args())
		h.mu.Unlock()
	}
}

func (h *multiKeyDelHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	h.check(cmd)
	return ctx, nil
}

func (h *multiKeyDelHook) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (h *multiKeyDelHook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	for _, cmd := range cmds {
		h.check(cmd)
	}
	return ctx, nil
}

func (h *multiKeyDelHook) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

func TestDeletes_OneKeyPerDel(t *testing.T) {
	client, mr := newTestRedis(t)
	hook := &multiKeyDelHook{}
	client.AddHook(hook)
	ctx := context.Background()

	clients := NewClientRepo(client)
	pets := NewPetRepo(client)
	onboarding := NewOnboardingRepo(client)
	posts := NewPostRepo(client)
	redirects := NewRedirectRepo(client)

	require.NoError(t, clients.Create(ctx, &entity.Client{ID: "C", Email: "c@example.com"}))
	require.NoError(t, pets.Create(ctx, &entity.Pet{ID: "P1", ClientID: "C", Name: "Rex"}))
	require.NoError(t, pets.Create(ctx, &entity.Pet{ID: "P2", ClientID: "C", Name: "Tom"}))
	_, err := onboarding.Create(ctx, entity.NewOnboardingStatus("C", "P1", baseTime))
	require.NoError(t, err)
	_, err = onboarding.Create(ctx, entity.NewOnboardingStatus("C", "P2", baseTime))
	require.NoError(t, err)
	require.NoError(t, posts.Create(ctx, &entity.Post{ID: "post1", Slug: "aging-dogs", Locale: "en", Status: entity.PostStatusDraft, CreatedAt: baseTime}))
	_, err = posts.IncrementViews(ctx, "post1")
	require.NoError(t, err)
	require.NoError(t, redirects.Save(ctx, &entity.Redirect{Source: "/old", Destination: "/en"}))
	require.NoError(t, redirects.RecordHit(ctx, "/old"))

	require.NoError(t, pets.Delete(ctx, "P2"))
	require.NoError(t, clients.Delete(ctx, "C"))
	require.NoError(t, posts.Delete(ctx, "post1"))
	require.NoError(t, redirects.Delete(ctx, "/old"))

	assert.Empty(t, hook.seen, "каждый DEL должен касаться одного ключа")

	for _, key := range []string{
		clientKey("C"), petKey("P1"), petKey("P2"), petAppointmentsKey("P1"),
		onboardingKey("C", "P1"), onboardingKey("C", "P2"),
		postKey("post1"), postViewsKey("post1"), postSlugKey("en", "aging-dogs"),
		redirectKey("/old"), redirectHitsKey("/old"),
	} {
		assert.False(t, mr.Exists(key), key)
	}
}
