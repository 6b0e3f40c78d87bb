package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-buddy/backend/internal/middleware"
	"github.com/pageza/recipe-buddy/backend/internal/service"
	"github.com/pageza/recipe-buddy/backend/internal/store"
	"github.com/pageza/recipe-buddy/backend/internal/types"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req service.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, username string, s *types.Suggestion) (string, error) {
	args := m.Called(ctx, username, s)
	return args.String(0), args.Error(1)
}

type testServer struct {
	router    *gin.Engine
	users     *store.FileStore
	generator *MockGenerator
	exporter  *MockExporter
}

func setupTestServer(t *testing.T, withExporter bool) *testServer {
	gin.SetMode(gin.TestMode)

	users := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	gen := &MockGenerator{}
	var exporter service.Exporter
	exp := &MockExporter{}
	if withExporter {
		exporter = exp
	}

	svc := service.NewSuggestionService(
		users,
		service.NewMemorySessionStore(),
		gen,
		service.NewInterpreter(2, service.NewFenceStripper(), service.PolicyFallback),
		exporter,
		service.SuggestionConfig{Model: "test-model", Temperature: 0.6, Timeout: time.Second},
	)

	router := gin.New()
	SetupAPI(router, NewHandlers(users, svc, nil))
	return &testServer{router: router, users: users, generator: gen, exporter: exp}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

const twoRecipes = "```json\n" + `[
  {"title":"Egg Fried Rice","summary":"Fast.","total_time_minutes":15,"ingredients":["rice","egg"],"steps":["Fry"],"tags":["quick"]},
  {"title":"Rice Pudding","summary":"Sweet.","total_time_minutes":"25","ingredients":["rice","milk"],"steps":["Simmer"],"tags":[]}
]` + "\n```"

func TestHealthAndOptions(t *testing.T) {
	s := setupTestServer(t, false)

	w := s.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var opts types.OptionsResponse
	decode(t, w, &opts)
	assert.Equal(t, types.MealTypes, opts.MealTypes)
	assert.Equal(t, types.DietOptions, opts.Diets)
}

func TestBlankUsername(t *testing.T) {
	s := setupTestServer(t, false)

	for _, path := range []string{
		"/api/v1/users/%20/login",
		"/api/v1/users/%20",
		"/api/v1/users/%20/suggestions/latest",
	} {
		method := http.MethodGet
		if strings.HasSuffix(path, "login") {
			method = http.MethodPost
		}
		w := s.do(method, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"error":"Please provide a username."}`, w.Body.String())
	}
}

func TestLoginCreatesUser(t *testing.T) {
	s := setupTestServer(t, false)

	w := s.do(http.MethodPost, "/api/v1/users/sam/login", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec types.UserRecord
	decode(t, w, &rec)
	assert.Equal(t, *types.NewUserRecord(), rec)

	data, err := os.ReadFile(s.users.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sam"`)
}

func TestUpdatePantryAndProfile(t *testing.T) {
	s := setupTestServer(t, false)

	w := s.do(http.MethodPut, "/api/v1/users/sam/pantry", types.UpdatePantryRequest{Items: []string{" rice ", "", "eggs"}})
	require.Equal(t, http.StatusOK, w.Code)
	var rec types.UserRecord
	decode(t, w, &rec)
	assert.Equal(t, []string{"rice", "eggs"}, rec.Pantry)

	w = s.do(http.MethodPut, "/api/v1/users/sam/profile", types.UpdateProfileRequest{Diet: []string{"Vegan"}, Allergies: []string{"nuts"}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &rec)
	assert.Equal(t, types.UserProfile{Diet: []string{"vegan"}, Allergies: []string{"nuts"}}, rec.Profile)

	w = s.do(http.MethodPut, "/api/v1/users/sam/profile", types.UpdateProfileRequest{Diet: []string{"carnivore"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/sam", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &rec)
	assert.Equal(t, []string{"rice", "eggs"}, rec.Pantry)
	assert.Equal(t, []string{"vegan"}, rec.Profile.Diet)
}

func TestOnboardingFlow(t *testing.T) {
	s := setupTestServer(t, false)

	w := s.do(http.MethodGet, "/api/v1/users/sam/onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"profile","events":["submit","skip"]}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/users/sam/onboarding", gin.H{"event": "back"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/sam/onboarding", gin.H{"event": "submit"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/sam/onboarding", gin.H{"event": "skip"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/sam/onboarding", gin.H{
		"event":  "submit",
		"pantry": gin.H{"items": []string{"rice"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status struct {
			State string `json:"state"`
		} `json:"status"`
		User types.UserRecord `json:"user"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "complete", resp.Status.State)
	assert.Equal(t, []string{"rice"}, resp.User.Pantry)
}

func TestSuggestFromModel(t *testing.T) {
	s := setupTestServer(t, false)
	s.do(http.MethodPut, "/api/v1/users/sam/pantry", types.UpdatePantryRequest{Items: []string{"rice"}})

	s.generator.On("Generate", mock.Anything, mock.MatchedBy(func(req service.GenerateRequest) bool {
		return req.Model == "test-model" && strings.Contains(req.Prompt, "Pantry ingredients available: rice")
	})).Return(twoRecipes, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/users/sam/suggestions", types.SuggestRequest{MealType: "Dinner", TimeLimitMinutes: 30})
	require.Equal(t, http.StatusOK, w.Code)

	var sug types.Suggestion
	decode(t, w, &sug)
	assert.Equal(t, types.SourceModel, sug.Source)
	assert.Empty(t, sug.Notice)
	require.Len(t, sug.Recipes, 2)
	assert.Equal(t, 25, sug.Recipes[1].TotalTimeMinutes)
	s.generator.AssertExpectations(t)

	w = s.do(http.MethodGet, "/api/v1/users/sam/suggestions/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var latest types.Suggestion
	decode(t, w, &latest)
	assert.Equal(t, sug.ID, latest.ID)
}

func TestSuggestFallsBackWhenServiceFails(t *testing.T) {
	s := setupTestServer(t, false)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return("", service.ErrServiceUnavailable).Once()

	w := s.do(http.MethodPost, "/api/v1/users/sam/suggestions", types.SuggestRequest{MealType: "breakfast", TimeLimitMinutes: 30})
	require.Equal(t, http.StatusOK, w.Code)

	var sug types.Suggestion
	decode(t, w, &sug)
	assert.Equal(t, types.SourceFallback, sug.Source)
	assert.Equal(t, types.ReasonNoResponse, sug.Reason)
	assert.Equal(t, service.NoticeNoResponse, sug.Notice)
	require.Len(t, sug.Recipes, 2)
	assert.Equal(t, "Quick Skillet Hash #1", sug.Recipes[0].Title)
	assert.Equal(t, 20, sug.Recipes[0].TotalTimeMinutes)
}

func TestSuggestValidatesRequest(t *testing.T) {
	s := setupTestServer(t, false)

	w := s.do(http.MethodPost, "/api/v1/users/sam/suggestions", gin.H{"meal_type": "lunch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/sam/suggestions", gin.H{"time_limit_minutes": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestLatestWithoutSuggestion(t *testing.T) {
	s := setupTestServer(t, false)

	w := s.do(http.MethodGet, "/api/v1/users/sam/suggestions/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/sam/history", gin.H{"index": 0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveAndSearchHistory(t *testing.T) {
	s := setupTestServer(t, false)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return(twoRecipes, nil).Once()
	s.do(http.MethodPost, "/api/v1/users/sam/suggestions", types.SuggestRequest{MealType: "dinner", TimeLimitMinutes: 30})

	w := s.do(http.MethodPost, "/api/v1/users/sam/history", gin.H{"index": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved types.SavedRecipe
	decode(t, w, &saved)
	assert.Equal(t, "Rice Pudding", saved.Recipe.Title)

	w = s.do(http.MethodPost, "/api/v1/users/sam/history", gin.H{"index": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPost, "/api/v1/users/sam/history", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		History []types.SavedRecipe `json:"history"`
	}
	w = s.do(http.MethodGet, "/api/v1/users/sam/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Len(t, resp.History, 1)

	w = s.do(http.MethodGet, "/api/v1/users/sam/history?q=pudding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Len(t, resp.History, 1)

	w = s.do(http.MethodGet, "/api/v1/users/sam/history?q=soup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Empty(t, resp.History)
}

func TestExport(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := setupTestServer(t, false)
		s.generator.On("Generate", mock.Anything, mock.Anything).Return("", nil).Once()
		s.do(http.MethodPost, "/api/v1/users/sam/suggestions", types.SuggestRequest{MealType: "lunch", TimeLimitMinutes: 10})

		w := s.do(http.MethodPost, "/api/v1/users/sam/suggestions/latest/export", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		s := setupTestServer(t, true)
		s.generator.On("Generate", mock.Anything, mock.Anything).Return("", nil).Once()
		s.do(http.MethodPost, "/api/v1/users/sam/suggestions", types.SuggestRequest{MealType: "lunch", TimeLimitMinutes: 10})
		s.exporter.On("Export", mock.Anything, "sam", mock.AnythingOfType("*types.Suggestion")).
			Return("https://bucket.example/exports/sam/x.json", nil).Once()

		w := s.do(http.MethodPost, "/api/v1/users/sam/suggestions/latest/export", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"url":"https://bucket.example/exports/sam/x.json"}`, w.Body.String())
		s.exporter.AssertExpectations(t)
	})
}

type brokenUsers struct{}

func (brokenUsers) Get(context.Context, string) (*types.UserRecord, error) {
	return nil, errors.New("connection refused")
}

func (brokenUsers) Put(context.Context, string, *types.UserRecord) error {
	return errors.New("connection refused")
}

func TestStoreFailuresRenderThroughErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	users := brokenUsers{}
	svc := service.NewSuggestionService(users, service.NewMemorySessionStore(), nil,
		service.NewInterpreter(2, nil, service.PolicyFallback), nil, service.SuggestionConfig{})

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	SetupAPI(router, NewHandlers(users, svc, nil))
	s := &testServer{router: router}

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/v1/users/ada/login", nil},
		{http.MethodGet, "/api/v1/users/ada", nil},
		{http.MethodPut, "/api/v1/users/ada/pantry", types.UpdatePantryRequest{Items: []string{"rice"}}},
		{http.MethodGet, "/api/v1/users/ada/onboarding", nil},
		{http.MethodPost, "/api/v1/users/ada/onboarding", gin.H{"event": "skip"}},
		{http.MethodPost, "/api/v1/users/ada/suggestions", gin.H{"meal_type": "lunch", "time_limit_minutes": 10}},
		{http.MethodGet, "/api/v1/users/ada/history", nil},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := s.do(r.method, r.path, r.body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
		})
	}
}
