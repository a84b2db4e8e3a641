package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kwiens/seeds/internal/auth"
	"github.com/kwiens/seeds/internal/database"
	"github.com/kwiens/seeds/internal/middleware"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testSecret = []byte("controller-secret")

const envAdmin = "root@example.com"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	seeds  *SeedController
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	roster := services.NewAdminRosterService(db, []string{envAdmin})
	users := services.NewUserService(db, roster)
	queries := services.NewSeedQueryService(db)
	seedCtl := NewSeedController(services.NewSeedService(db), queries, services.NewSupportService(db), services.NewImageService(db, nil, nil))
	adminCtl := NewAdminController(queries, services.NewLifecycleService(db), roster)
	authCtl := NewAuthController(users, auth.NewSessionIssuer(testSecret))

	r := gin.New()
	r.GET("/test-token", authCtl.TestToken)
	api := r.Group("/api/v1", middleware.Identity(testSecret, users))
	api.GET("/me", authCtl.Me)
	seedCtl.Register(api)
	adminCtl.Register(api)

	return &testServer{router: r, db: db, seeds: seedCtl}
}

// signIn provisions email through the dev token route and returns its bearer token
func (s *testServer) signIn(t *testing.T, email string) string {
	t.Helper()
	w, body := s.do(t, http.MethodGet, "/test-token?email="+url.QueryEscape(email)+"&name=Test+User", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return body["token"].(string)
}

func (s *testServer) do(t *testing.T, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (s *testServer) list(t *testing.T, path, token string) []interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	return items
}

func seedPayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":      name,
		"summary":   "Plant shade trees along the greenway.",
		"category":  "outdoor_play",
		"gardeners": []string{"Ana Garcia"},
		"roots":     []map[string]interface{}{{"name": "Trail Club", "committed": true}},
	}
}

func (s *testServer) plant(t *testing.T, token, name string) string {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/api/v1/seeds", token, seedPayload(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func feedIDs(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	var ids []string
	for _, item := range body["seeds"].([]interface{}) {
		ids = append(ids, item.(map[string]interface{})["id"].(string))
	}
	return ids
}

func TestCreateSeedFlow(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")

	t.Run("anonymous cannot plant", func(t *testing.T) {
		w, body := s.do(t, http.MethodPost, "/api/v1/seeds", "", seedPayload("Shade"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.ErrCodeSignInRequired, body["code"])
	})

	t.Run("validation message is returned inline", func(t *testing.T) {
		payload := seedPayload("")
		w, body := s.do(t, http.MethodPost, "/api/v1/seeds", owner, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Project name is required", body["error"])
	})

	t.Run("new seed is pending and unlisted", func(t *testing.T) {
		id := s.plant(t, owner, "Shade Trees")

		w, body := s.do(t, http.MethodGet, "/api/v1/seeds/"+id, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		seed := body["seed"].(map[string]interface{})
		assert.Equal(t, "pending", seed["status"])
		assert.Nil(t, seed["location_lat"])
		assert.Equal(t, false, body["can_edit"])

		_, feed := s.do(t, http.MethodGet, "/api/v1/seeds", "", nil)
		assert.NotContains(t, feedIDs(t, feed), id)

		_, ownFeed := s.do(t, http.MethodGet, "/api/v1/seeds", owner, nil)
		assert.Contains(t, feedIDs(t, ownFeed), id)
	})
}

func TestUpdateSeedPermissions(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	other := s.signIn(t, "other@example.com")
	admin := s.signIn(t, envAdmin)
	id := s.plant(t, owner, "Shade Trees")

	w, body := s.do(t, http.MethodPut, "/api/v1/seeds/"+id, other, seedPayload("Hijacked"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.ErrCodePermissionDenied, body["code"])

	w, _ = s.do(t, http.MethodPut, "/api/v1/seeds/"+id, admin, seedPayload("Edited by admin"))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/v1/seeds/missing", owner, seedPayload("Nope"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousWritesAreRejectedBeforeBinding(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	id := s.plant(t, owner, "Shade Trees")

	tests := []struct {
		name    string
		method  string
		path    string
		message string
	}{
		{"create", http.MethodPost, "/api/v1/seeds", "You must be signed in to plant a seed."},
		{"update", http.MethodPut, "/api/v1/seeds/" + id, "You must be signed in."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, tt.method, tt.path, "", "not a seed")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, models.ErrCodeSignInRequired, body["code"])
			assert.Equal(t, tt.message, body["error"])
		})
	}

	w, body := s.do(t, http.MethodPost, "/api/v1/seeds", owner, "not a seed")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeValidationFailed, body["code"])
}

func TestAdminLifecycleRoutes(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	admin := s.signIn(t, envAdmin)
	id := s.plant(t, owner, "Shade Trees")

	w, _ := s.do(t, http.MethodPost, "/api/v1/admin/seeds/"+id+"/approve", owner, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "role gate stops non-admins")

	w, body := s.do(t, http.MethodPost, "/api/v1/admin/seeds/"+id+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	_, feed := s.do(t, http.MethodGet, "/api/v1/seeds", "", nil)
	assert.Contains(t, feedIDs(t, feed), id)

	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/seeds/"+id+"/unarchive", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/seeds/missing/approve", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/seeds/"+id+"/archive", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/seeds/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "archived seeds are hidden from the public")
	w, _ = s.do(t, http.MethodGet, "/api/v1/seeds/"+id, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.list(t, "/api/v1/dashboard/seeds", owner), "archived seeds leave the dashboard")

	rows := s.list(t, "/api/v1/admin/seeds", admin)
	require.Len(t, rows, 1)
	assert.Equal(t, "archived", rows[0].(map[string]interface{})["status"])
	assert.Equal(t, "owner@example.com", rows[0].(map[string]interface{})["creator_email"])
}

func TestSupportRoutes(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	fan := s.signIn(t, "fan@example.com")
	id := s.plant(t, owner, "Shade Trees")

	w, _ := s.do(t, http.MethodPost, "/api/v1/seeds/"+id+"/support", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/v1/seeds/"+id+"/support", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["supported"])
	assert.Equal(t, float64(1), body["new_count"])

	_, detail := s.do(t, http.MethodGet, "/api/v1/seeds/"+id, "", nil)
	supporter := detail["supporters"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, supporter, "email")
	assert.Equal(t, "Test U.", supporter["name"])

	_, detail = s.do(t, http.MethodGet, "/api/v1/seeds/"+id, owner, nil)
	supporter = detail["supporters"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "fan@example.com", supporter["email"])

	supporters := s.list(t, "/api/v1/dashboard/seeds/"+id+"/supporters", owner)
	assert.Len(t, supporters, 1)
	w, _ = s.do(t, http.MethodGet, "/api/v1/dashboard/seeds/"+id+"/supporters", fan, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/v1/seeds/"+id+"/support", fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["supported"])
	assert.Equal(t, float64(0), body["new_count"])
}

func TestAdminRosterRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.signIn(t, envAdmin)
	helper := s.signIn(t, "helper@example.com")

	w, _ := s.do(t, http.MethodGet, "/api/v1/admin/seeds", helper, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/v1/admin/emails", admin, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email address", body["error"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/admin/emails", admin, map[string]string{"email": "Helper@Example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/v1/admin/emails", admin, map[string]string{"email": "helper@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email is already in the admin list", body["error"])

	// the same token now carries admin rights because roles are re-read per request
	w, _ = s.do(t, http.MethodGet, "/api/v1/admin/seeds", helper, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	entries := s.list(t, "/api/v1/admin/emails", admin)
	require.Len(t, entries, 2)
	var helperID string
	for _, raw := range entries {
		entry := raw.(map[string]interface{})
		switch entry["email"] {
		case envAdmin:
			assert.Equal(t, false, entry["removable"])
		case "helper@example.com":
			assert.Equal(t, true, entry["removable"])
			helperID = entry["id"].(string)
		}
	}
	require.NotEmpty(t, helperID)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/admin/emails/"+helperID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/admin/seeds", helper, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodDelete, "/api/v1/admin/emails/"+helperID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Admin email not found", body["error"])
}

func TestCategoriesAndMap(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	s.plant(t, owner, "Shade Trees")

	assert.Len(t, s.list(t, "/api/v1/categories", ""), len(models.Categories))
	assert.Empty(t, s.list(t, "/api/v1/seeds/map", ""))
	assert.Len(t, s.list(t, "/api/v1/seeds/map?category=outdoor_play", owner), 1)

	w, _ := s.do(t, http.MethodGet, "/api/v1/seeds?category=parks", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeAndTestToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/test-token", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := s.signIn(t, envAdmin)
	w, body := s.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", body["role"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestImageRoutesWhenDisabled(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	id := s.plant(t, owner, "Shade Trees")

	w, body := s.do(t, http.MethodPost, "/api/v1/seeds/"+id+"/image", owner, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, models.ErrCodeImageUnavailable, body["code"])
}

type recordingImages struct {
	calls []string
}

func (r *recordingImages) Enabled() bool { return true }

func (r *recordingImages) GenerateSeedImage(_ context.Context, _ *policy.Actor, seedID string) (string, error) {
	r.calls = append(r.calls, seedID)
	return "https://cdn.example.com/" + seedID + ".png", nil
}

func (r *recordingImages) RegenerateSeedImage(ctx context.Context, actor *policy.Actor, seedID string) (string, error) {
	return r.GenerateSeedImage(ctx, actor, seedID)
}

func TestDetailTriggersImageForEditorsOnly(t *testing.T) {
	s := newTestServer(t)
	owner := s.signIn(t, "owner@example.com")
	viewer := s.signIn(t, "viewer@example.com")
	id := s.plant(t, owner, "Shade Trees")

	recorder := &recordingImages{}
	s.seeds.images = recorder
	s.seeds.background = func(fn func()) { fn() }

	w, _ := s.do(t, http.MethodGet, "/api/v1/seeds/"+id, viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.calls)

	w, _ = s.do(t, http.MethodGet, "/api/v1/seeds/"+id, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{id}, recorder.calls)
}
