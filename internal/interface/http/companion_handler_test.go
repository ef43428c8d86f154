package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/soulpet-ai/soulpet-api/internal/application"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

type fakeStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (f *fakeStore) Load(ctx context.Context, userID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := &entity.User{}
	b, _ := json.Marshal(u)
	_ = json.Unmarshal(b, cp)
	return cp, nil
}

func (f *fakeStore) Save(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
	return nil
}

func (f *fakeStore) UserIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newCoinsRouter(t *testing.T, uid string) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeStore{users: make(map[string]*entity.User)}
	svc := app.NewCompanionService(store, nil, logrus.New(), nil, "", nil, "")
	h := NewCompanionHandler(svc, logrus.New())

	r := gin.New()
	r.POST("/api/me/coins", func(c *gin.Context) {
		c.Set("userID", uid)
	}, h.AdjustCoins)
	return r, store
}

func TestAdjustCoinsDebitsBalance(t *testing.T) {
	r, store := newCoinsRouter(t, "u1")
	require.NoError(t, store.Save(context.Background(), &entity.User{ID: "u1", CuddleCoins: 500}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/me/coins", strings.NewReader(`{"amount":-200}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300, store.users["u1"].CuddleCoins)
}

func TestAdjustCoinsRejectsCredits(t *testing.T) {
	r, store := newCoinsRouter(t, "u1")
	require.NoError(t, store.Save(context.Background(), &entity.User{ID: "u1", CuddleCoins: 500}))

	for _, body := range []string{`{"amount":9999}`, `{"amount":0}`, `{}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/me/coins", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, 500, store.users["u1"].CuddleCoins, "balance untouched")
}
