package spawn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/config"
	"reiatsu/events"
	"reiatsu/repository"
	"reiatsu/repository/testutil"
	"reiatsu/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeDiscord answers REST calls in place of the Discord API. Channels in
// forbidden reject every request.
type fakeDiscord struct {
	mu        sync.Mutex
	forbidden map[string]bool
	posts     []string
}

func (d *fakeDiscord) RoundTrip(req *http.Request) (*http.Response, error) {
	channelID := ""
	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	for i, part := range parts {
		if part == "channels" && i+1 < len(parts) {
			channelID = parts[i+1]
		}
	}

	isPost := req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/messages")
	if isPost {
		d.mu.Lock()
		d.posts = append(d.posts, channelID)
		d.mu.Unlock()
	}

	switch {
	case d.forbidden[channelID]:
		return discordResponse(req, http.StatusForbidden, `{"message":"Missing Access","code":50001}`), nil
	case isPost:
		return discordResponse(req, http.StatusOK, fmt.Sprintf(`{"id":"9%s","channel_id":"%s"}`, channelID, channelID)), nil
	default:
		return discordResponse(req, http.StatusNoContent, ""), nil
	}
}

func discordResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func TestFeature_RunDue(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	cat, err := catalog.Default()
	require.NoError(t, err)

	deps := &common.Deps{
		UowFactory: repository.NewUnitOfWorkFactory(testDB.DB, events.NewBus()),
		Catalog:    catalog.NewStaticStore(cat),
		Config:     config.NewTestConfig(),
		Clock:      fixedClock{time.Now().UTC().Truncate(time.Microsecond)},
		Random:     service.NewRandom(),
	}
	feature := New(deps)

	// guilds are polled in id order, so the broken one goes first
	const brokenGuild, healthyGuild int64 = 100, 200
	channels := map[int64]int64{brokenGuild: 1100, healthyGuild: 1200}
	for guildID, channelID := range channels {
		err := deps.InGuild(ctx, guildID, func(svc *common.Services) error {
			if _, err := svc.Spawns().SetChannel(ctx, channelID); err != nil {
				return err
			}
			return svc.Spawns().ForceSpawn(ctx)
		})
		require.NoError(t, err)
	}

	discord := &fakeDiscord{forbidden: map[string]bool{"1100": true}}
	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	session.Client = &http.Client{Transport: discord}

	feature.RunDue(ctx, session)

	assert.Equal(t, []string{"1100", "1200"}, discord.posts)

	spawnState := func(guildID int64) (isSpawn bool, messageID *int64) {
		err := deps.InGuild(ctx, guildID, func(svc *common.Services) error {
			cfg, err := svc.Spawns().Config(ctx)
			if err != nil {
				return err
			}
			isSpawn, messageID = cfg.IsSpawn, cfg.MessageID
			return nil
		})
		require.NoError(t, err)
		return isSpawn, messageID
	}

	isSpawn, _ := spawnState(brokenGuild)
	assert.False(t, isSpawn, "failed post must not be recorded")

	isSpawn, messageID := spawnState(healthyGuild)
	assert.True(t, isSpawn)
	require.NotNil(t, messageID)
	assert.Equal(t, int64(91200), *messageID)
}
