package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/data/repos/testutil"
	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type testDeps struct {
	db        *gorm.DB
	log       *logger.Logger
	profiles  repos.ProfileRepo
	settings  repos.SettingsRepo
	favorites repos.FavoriteRepo
	cache     *memCache
	pub       *events.Recorder
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return testDeps{
		db:        db,
		log:       log,
		profiles:  repos.NewProfileRepo(db, log),
		settings:  repos.NewSettingsRepo(db, log),
		favorites: repos.NewFavoriteRepo(db, log),
		cache:     newMemCache(),
		pub:       &events.Recorder{},
	}
}

func learnerCtx(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	return ctxutil.WithLearner(context.Background(), &ctxutil.LearnerData{UserID: id}), id
}

func eventTypes(r *events.Recorder) []events.Type {
	var out []events.Type
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[uuid.UUID]accessibility.Settings
}

func newMemCache() *memCache {
	return &memCache{data: map[uuid.UUID]accessibility.Settings{}}
}

func (c *memCache) Get(_ context.Context, id uuid.UUID) (accessibility.Settings, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[id]
	return s, ok, nil
}

func (c *memCache) Set(_ context.Context, id uuid.UUID, s accessibility.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[id] = s
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	return nil
}

func (c *memCache) has(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[id]
	return ok
}
