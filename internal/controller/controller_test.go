package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/internal/pkg/serverutils"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromptService struct {
	filter     specification.PromptFilter
	input      dto.PromptInput
	file       *multipart.FileHeader
	toggled    bool
	setTo      *bool
	listErr    error
	deletedIDs []uint
}

func (f *fakePromptService) List(ctx context.Context, filter specification.PromptFilter) ([]*dto.PromptSummaryResponse, error) {
	f.filter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []*dto.PromptSummaryResponse{{Id: 1, Title: "one", Tags: []string{}}}, nil
}

func (f *fakePromptService) Show(ctx context.Context, id uint) (*dto.PromptDetailResponse, error) {
	if id != 1 {
		return nil, service.ErrPromptNotFound
	}
	return &dto.PromptDetailResponse{PromptResponse: dto.PromptResponse{Id: 1, Title: "one"}}, nil
}

func (f *fakePromptService) Create(ctx context.Context, in dto.PromptInput, file *multipart.FileHeader) (*dto.PromptResponse, error) {
	f.input, f.file = in, file
	return &dto.PromptResponse{Id: 7, Title: in.Title.Value, Tags: in.Tags.Value}, nil
}

func (f *fakePromptService) Update(ctx context.Context, id uint, in dto.PromptInput, file *multipart.FileHeader) (*dto.PromptResponse, error) {
	f.input, f.file = in, file
	return &dto.PromptResponse{Id: id}, nil
}

func (f *fakePromptService) SetFavorite(ctx context.Context, id uint, favorite bool) (*dto.FavoriteResponse, error) {
	f.setTo = &favorite
	return &dto.FavoriteResponse{Id: id, IsFavorite: favorite}, nil
}

func (f *fakePromptService) ToggleFavorite(ctx context.Context, id uint) (*dto.FavoriteResponse, error) {
	f.toggled = true
	return &dto.FavoriteResponse{Id: id, IsFavorite: true}, nil
}

func (f *fakePromptService) RecordView(ctx context.Context, id uint) (*dto.ViewResponse, error) {
	return &dto.ViewResponse{Id: id, UsageCount: 4}, nil
}

func (f *fakePromptService) Delete(ctx context.Context, id uint) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakePromptService) BulkDelete(ctx context.Context, ids []uint) (*dto.BulkDeleteResponse, error) {
	f.deletedIDs = append(f.deletedIDs, ids...)
	return &dto.BulkDeleteResponse{Deleted: int64(len(ids))}, nil
}

func (f *fakePromptService) Duplicate(ctx context.Context, id uint) (*dto.PromptResponse, error) {
	return &dto.PromptResponse{Id: id + 1, Version: 2}, nil
}

type fakeLookupService struct {
	names map[string]bool
}

func (f *fakeLookupService) List(ctx context.Context) ([]*dto.LookupResponse, error) {
	return []*dto.LookupResponse{{Id: 1, Name: "ChatGPT"}}, nil
}

func (f *fakeLookupService) Create(ctx context.Context, req *dto.CreateLookupRequest) (*dto.LookupResponse, error) {
	if f.names[strings.ToLower(req.Name)] {
		return nil, service.ErrDuplicateName
	}
	f.names[strings.ToLower(req.Name)] = true
	return &dto.LookupResponse{Id: 2, Name: req.Name}, nil
}

func (f *fakeLookupService) Replace(ctx context.Context, id uint, req *dto.CreateLookupRequest) (*dto.LookupResponse, error) {
	return &dto.LookupResponse{Id: id, Name: req.Name}, nil
}

func (f *fakeLookupService) Update(ctx context.Context, id uint, req *dto.UpdateLookupRequest) (*dto.LookupResponse, error) {
	return &dto.LookupResponse{Id: id, Name: "patched"}, nil
}

func (f *fakeLookupService) Delete(ctx context.Context, id uint) error {
	return serverutils.NewNotFound("Tool not found")
}

type fakeStatsService struct {
	stats *dto.StatsResponse
}

func (f *fakeStatsService) Dashboard(ctx context.Context) *dto.StatsResponse { return f.stats }

func (f *fakeStatsService) Health(ctx context.Context) (*dto.HealthResponse, bool) {
	return &dto.HealthResponse{Status: "ok", Database: "ok"}, true
}

type testApp struct {
	app     *fiber.App
	prompts *fakePromptService
	tools   *fakeLookupService
	stats   *fakeStatsService
}

func newTestApp() *testApp {
	ta := &testApp{
		prompts: &fakePromptService{},
		tools:   &fakeLookupService{names: map[string]bool{"chatgpt": true}},
		stats:   &fakeStatsService{stats: dto.EmptyStats()},
	}
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	api := app.Group("/api")
	NewPromptController(ta.prompts).RegisterRoutes(api)
	NewLookupController("/tools", ta.tools).RegisterRoutes(api)
	NewStatsController(ta.stats).RegisterRoutes(api)
	ta.app = app
	return ta
}

func (ta *testApp) do(t *testing.T, req *http.Request) (int, map[string]interface{}, []byte) {
	t.Helper()
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var obj map[string]interface{}
	_ = json.Unmarshal(body, &obj)
	return resp.StatusCode, obj, body
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestListPromptsValidatesFilters(t *testing.T) {
	ta := newTestApp()

	status, body, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts?rating=abc", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "rating")

	status, _, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts?tool=x", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, raw := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts?tool=3&rating=4&sort=bogus&favoritesOnly=true", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint(3), *ta.prompts.filter.ToolID)
	assert.Equal(t, 4.0, *ta.prompts.filter.MinRating)
	assert.True(t, ta.prompts.filter.FavoritesOnly)
	assert.Equal(t, specification.DefaultPromptSort, ta.prompts.filter.Sort)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)
}

func TestShowPromptStatusCodes(t *testing.T) {
	ta := newTestApp()

	status, _, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts/1", nil))
	assert.Equal(t, http.StatusOK, status)

	status, body, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts/9", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Prompt not found", body["msg"])

	for _, id := range []string{"abc", "0", "-1"} {
		status, _, _ = ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, status, id)
	}
}

func TestCreatePromptMultipart(t *testing.T) {
	ta := newTestApp()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Haiku"))
	require.NoError(t, w.WriteField("prompt_text", "Write a haiku"))
	require.NoError(t, w.WriteField("tags", "a, b, c"))
	require.NoError(t, w.WriteField("ai_tool_id", "2"))
	part, err := w.CreateFormFile("attachment", "shot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/prompts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	status, body, _ := ta.do(t, req)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Haiku", body["title"])
	assert.Equal(t, []string{"a", "b", "c"}, ta.prompts.input.Tags.Value)
	assert.Equal(t, uint(2), *ta.prompts.input.AiToolId.Value)
	require.NotNil(t, ta.prompts.file)
	assert.Equal(t, "shot.png", ta.prompts.file.Filename)
}

func TestUpdatePromptJSON(t *testing.T) {
	ta := newTestApp()

	status, _, _ := ta.do(t, jsonRequest(http.MethodPatch, "/api/prompts/1", `{"rating": 5, "tags": ["x", "y"], "category_id": null}`))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, *ta.prompts.input.Rating.Value)
	assert.Equal(t, []string{"x", "y"}, ta.prompts.input.Tags.Value)
	assert.True(t, ta.prompts.input.CategoryId.Set)
	assert.Nil(t, ta.prompts.input.CategoryId.Value)
	assert.False(t, ta.prompts.input.Title.Set)

	status, _, _ = ta.do(t, jsonRequest(http.MethodPatch, "/api/prompts/1", `{"rating": "high"}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = ta.do(t, jsonRequest(http.MethodPatch, "/api/prompts/1", `{not json`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFavoriteSetsOrToggles(t *testing.T) {
	ta := newTestApp()

	status, _, _ := ta.do(t, httptest.NewRequest(http.MethodPatch, "/api/prompts/1/favorite", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, ta.prompts.toggled)

	status, body, _ := ta.do(t, jsonRequest(http.MethodPatch, "/api/prompts/1/favorite", `{"is_favorite": false}`))
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, ta.prompts.setTo)
	assert.False(t, *ta.prompts.setTo)
	assert.Equal(t, false, body["is_favorite"])
}

func TestViewAndDuplicate(t *testing.T) {
	ta := newTestApp()

	status, body, _ := ta.do(t, httptest.NewRequest(http.MethodPatch, "/api/prompts/3/view", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4.0, body["usage_count"])

	status, body, _ = ta.do(t, httptest.NewRequest(http.MethodPost, "/api/prompts/3/duplicate", nil))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 2.0, body["version"])
}

func TestBulkDeleteValidatesIds(t *testing.T) {
	ta := newTestApp()

	status, _, _ := ta.do(t, jsonRequest(http.MethodPost, "/api/prompts/bulk-delete", `{"ids": []}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ := ta.do(t, jsonRequest(http.MethodPost, "/api/prompts/bulk-delete", `{"ids": [1, 2]}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["deleted"])
	assert.Equal(t, []uint{1, 2}, ta.prompts.deletedIDs)
}

func TestLookupController(t *testing.T) {
	ta := newTestApp()

	status, _, _ := ta.do(t, jsonRequest(http.MethodPost, "/api/tools", `{"name": ""}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = ta.do(t, jsonRequest(http.MethodPost, "/api/tools", `{"name": "Claude", "color_hex": "orange"}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = ta.do(t, jsonRequest(http.MethodPost, "/api/tools", `{"name": "Claude", "color_hex": "#d97757"}`))
	assert.Equal(t, http.StatusCreated, status)

	status, _, _ = ta.do(t, jsonRequest(http.MethodPost, "/api/tools", `{"name": "ChatGPT"}`))
	assert.Equal(t, http.StatusConflict, status)

	status, _, _ = ta.do(t, jsonRequest(http.MethodPut, "/api/tools/2", `{"name": "Claude"}`))
	assert.Equal(t, http.StatusOK, status)

	status, body, _ := ta.do(t, jsonRequest(http.MethodPatch, "/api/tools/2", `{"color_hex": "#fff"}`))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "patched", body["name"])

	status, _, _ = ta.do(t, httptest.NewRequest(http.MethodDelete, "/api/tools/5", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatsAlwaysAnswers(t *testing.T) {
	ta := newTestApp()

	status, body, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, 0.0, body["total_prompts"])
	assert.Equal(t, []interface{}{}, body["by_tool"])
}

func TestUnexpectedErrorsAreGeneric(t *testing.T) {
	ta := newTestApp()
	ta.prompts.listErr = errors.New("pq: connection refused")

	status, body, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/prompts", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body["message"], "pq")
}
