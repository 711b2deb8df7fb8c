package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardhub/internal/auth"
)

type stubBuilder struct {
	called chan []string
}

func (s *stubBuilder) Rebuild(sets []string) error {
	s.called <- sets
	return nil
}

func testRouter(t *testing.T) (*gin.Engine, *stubBuilder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	seedCard(t, db, "uuid-1", "Grizzly Bears", "LEA", "94", false)
	seedSet(t, db, "LEA", 1, 0)

	hash, err := auth.HashPassword("open sesame")
	require.NoError(t, err)

	builder := &stubBuilder{called: make(chan []string, 1)}
	tokens := auth.TokenService{Secret: []byte("test"), Issuer: "cardhub", Duration: time.Hour}

	router := gin.New()
	NewHandler(NewRepo(db), tokens, hash, builder, nil).RegisterRoutes(router)
	return router, builder
}

func TestGetCardEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cards/uuid-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Grizzly Bears", body["name"])
}

func TestGetCardNotFound(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cards/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSetsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sets", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sets []SetSummary `json:"sets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sets, 1)
	assert.Equal(t, "LEA", body.Sets[0].Code)
}

func TestAdminTokenFlow(t *testing.T) {
	router, builder := testRouter(t)

	t.Run("wrong password rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/token",
			bytes.NewBufferString(`{"password": "wrong"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rebuild requires token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/rebuild", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("full flow", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/token",
			bytes.NewBufferString(`{"password": "open sesame"}`))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/admin/rebuild",
			bytes.NewBufferString(`{"sets": ["lea"]}`))
		req.Header.Set("Authorization", "Bearer "+body.Token)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusAccepted, w.Code)

		select {
		case sets := <-builder.called:
			assert.Equal(t, []string{"LEA"}, sets)
		case <-time.After(time.Second):
			t.Fatal("rebuild never reached the builder")
		}
	})
}
