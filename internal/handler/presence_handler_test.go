package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MohdZaidRapid/BooksBackend/internal/registry"
	"github.com/MohdZaidRapid/BooksBackend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idleHandle struct {
	key string
}

func (h idleHandle) Key() string { return h.key }

func (h idleHandle) Push(_ []byte) error { return nil }

func newPresenceRouter(reg *registry.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewPresenceHandler(reg)
	router.GET("/v1/presence", h.ListOnline)
	router.GET("/v1/presence/:id", h.Status)
	return router
}

func TestPresenceStatusReflectsRegistry(t *testing.T) {
	reg := registry.New(nil)
	router := newPresenceRouter(reg)

	online := uuid.New()
	offline := uuid.New()
	reg.Register(online, idleHandle{key: "h1"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/presence/"+online.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res httpdto.Response[httpdto.PresenceStatus]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, online, res.Data.UserID)
	assert.True(t, res.Data.Online)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/presence/"+offline.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Data.Online)
}

func TestPresenceStatusRejectsMalformedID(t *testing.T) {
	router := newPresenceRouter(registry.New(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/presence/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresenceListOnlineSnapshot(t *testing.T) {
	reg := registry.New(nil)
	router := newPresenceRouter(reg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/presence", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var empty httpdto.Response[[]uuid.UUID]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Empty(t, empty.Data)

	a := uuid.New()
	b := uuid.New()
	reg.Register(a, idleHandle{key: "h1"})
	reg.Register(b, idleHandle{key: "h2"})

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/presence", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res httpdto.Response[[]uuid.UUID]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.ElementsMatch(t, []uuid.UUID{a, b}, res.Data)
}
