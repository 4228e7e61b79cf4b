package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"refillmap.com/gamification/internal/bootstrap"
	"refillmap.com/gamification/internal/dto"
	"refillmap.com/gamification/internal/repository"
	"refillmap.com/gamification/internal/service"
)

// setupRouter wires the real services onto an in-memory database with the
// default catalog seeded, behind a stub auth middleware that injects a fixed
// user id (identity is the external provider's job).
func setupRouter(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedAchievements(db))

	profileRepo := repository.NewProfileRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	catalog := service.NewCatalogCache(nil, achievementRepo, 0)

	gamificationSvc := service.NewGamificationService(profileRepo, activityRepo, achievementRepo, catalog)
	profileSvc := service.NewProfileService(profileRepo, activityRepo, achievementRepo, catalog)
	statSvc := service.NewStatService(profileRepo)

	activityHandler := NewActivityHandler(gamificationSvc, profileSvc)
	profileHandler := NewProfileHandler(profileSvc)
	achievementHandler := NewAchievementHandler(gamificationSvc, profileSvc)
	statHandler := NewStatHandler(statSvc)

	userID := uuid.New()

	r := gin.New()
	api := r.Group("/api")
	api.GET("/stats", statHandler.GetImpactStats)

	authed := api.Group("")
	authed.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	{
		authed.POST("/profiles", profileHandler.Register)
		authed.GET("/profiles/me", profileHandler.GetCurrentProfile)
		authed.POST("/activities", activityHandler.RecordActivity)
		authed.GET("/activities", activityHandler.ListActivities)
		authed.GET("/achievements", achievementHandler.ListAchievements)
		authed.POST("/achievements/evaluate", achievementHandler.Evaluate)
	}

	return r, userID
}

func httpDo(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, name string) dto.ProfileResponse {
	t.Helper()
	w := httpDo(r, "POST", "/api/profiles", dto.CreateProfileInput{DisplayName: name})
	require.Equal(t, http.StatusCreated, w.Code)
	var profile dto.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	return profile
}

func TestRegisterAndGetProfile(t *testing.T) {
	r, userID := setupRouter(t)

	profile := register(t, r, "Alice")
	require.Equal(t, userID, profile.UserID)
	require.Equal(t, "Alice", profile.DisplayName)
	require.Equal(t, 1, profile.Level)
	require.Zero(t, profile.TotalPoints)

	// Registering again returns the existing profile unchanged.
	again := register(t, r, "Someone Else")
	require.Equal(t, "Alice", again.DisplayName)

	w := httpDo(r, "GET", "/api/profiles/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, userID, me.UserID)
	require.Equal(t, 1000, me.NextLevelPoints)
}

func TestRecordActivityEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "Bob")

	w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "refill_logged"})
	require.Equal(t, http.StatusCreated, w.Code)

	var res dto.RecordActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 5, res.Activity.Points)
	require.Equal(t, "Logged a water bottle refill", res.Activity.Description)
	// The seeded First Drop achievement fires on the first refill.
	require.Len(t, res.Unlocked, 1)
	require.Equal(t, "First Drop", res.Unlocked[0].Name)
	require.Equal(t, 15, res.TotalPoints)
}

func TestRecordActivityValidation(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "Cara")

	w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "teleported"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/api/activities", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordActivityWithoutProfile(t *testing.T) {
	r, _ := setupRouter(t)

	w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "refill_logged"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAchievementsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "Dina")

	w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "station_added"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "GET", "/api/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []dto.AchievementStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data)

	unlockedNames := map[string]bool{}
	for _, status := range body.Data {
		require.NotEmpty(t, status.IconURL)
		if status.Unlocked {
			require.NotNil(t, status.UnlockedAt)
			unlockedNames[status.Name] = true
		}
	}
	require.True(t, unlockedNames["Pioneer"])
}

func TestEvaluateEndpointIdempotent(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "Eko")

	w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "review_added"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "POST", "/api/achievements/evaluate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var eval dto.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &eval))
	require.Empty(t, eval.Unlocked)
	require.Nil(t, eval.LevelUp)
}

func TestActivityFeed(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "Fif")

	for i := 0; i < 3; i++ {
		w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "refill_logged"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httpDo(r, "GET", "/api/activities?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed dto.PaginatedActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Data, 2)
	// 3 refills plus the First Drop unlock event.
	require.Equal(t, int64(4), feed.Meta.TotalItems)
	require.Equal(t, 2, feed.Meta.TotalPages)
}

func TestImpactStatsEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "Gus")

	w := httpDo(r, "POST", "/api/activities", dto.RecordActivityInput{ActivityType: "station_added"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "GET", "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats dto.ImpactStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, int64(1), stats.Members)
	require.Equal(t, int64(1), stats.StationsAdded)
}
