package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentboard/internal/core/id"
	"talentboard/internal/domain"
	"talentboard/internal/domain/entities/jobapplication"
	"talentboard/internal/domain/entities/skill"
	"talentboard/internal/domain/filter"
	"talentboard/internal/infrastructure/http/v1/dto"
	"talentboard/internal/infrastructure/http/v1/handlers"
	"talentboard/internal/infrastructure/storage/memory"
	"talentboard/pkg/logger"
)

type testAPI struct {
	router       *gin.Engine
	skills       *domain.Service[skill.Skill, id.ID]
	applications *domain.Service[jobapplication.JobApplication, id.ID]
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	registry := filter.NewRegistry()

	skillCfg, err := skill.Descriptor.Build()
	require.NoError(t, err)
	registry.MustRegister(skill.Descriptor.Name, skillCfg)
	skills := domain.NewService(domain.ServiceConfig[skill.Skill, id.ID]{
		Repo: memory.New[skill.Skill, id.ID](memory.Options[id.ID]{
			Entity: skill.Descriptor.Name,
			Unique: skill.Descriptor.Unique,
			NewID:  id.New,
		}),
		Filter: skillCfg,
	})

	appCfg, err := jobapplication.Descriptor.Build()
	require.NoError(t, err)
	registry.MustRegister(jobapplication.Descriptor.Name, appCfg)
	applications := domain.NewService(domain.ServiceConfig[jobapplication.JobApplication, id.ID]{
		Repo: memory.NewSoftDeleting[jobapplication.JobApplication, id.ID](memory.Options[id.ID]{
			Entity: jobapplication.Descriptor.Name,
			NewID:  id.New,
		}),
		Filter: appCfg,
	})
	registry.Freeze()

	base := handlers.NewBaseHandler()
	router := NewRouter(RouterConfig{
		Mode:     gin.TestMode,
		Logger:   logger.Nop(),
		Driver:   "memory",
		Registry: registry,
		Entities: []EntityRouteHandler{
			handlers.NewEntityHandler(base, skills),
			handlers.NewEntityHandler(base, applications),
		},
		MetricsPath: "/metrics",
	})
	return &testAPI{router: router, skills: skills, applications: applications}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func (a *testAPI) seedSkills(t *testing.T) {
	t.Helper()
	ctx := t.Context()
	for _, s := range []skill.Skill{
		skill.New("Go", "cat1"),
		skill.New("Rust", "cat1"),
		skill.New("SQL", "cat2"),
	} {
		_, err := a.skills.Create(ctx, s)
		require.NoError(t, err)
	}
	retired := skill.New("Perl", "cat1")
	retired.IsActive = false
	_, err := a.skills.Create(ctx, retired)
	require.NoError(t, err)
}

func TestListSkills_DefaultFilterAndQueryString(t *testing.T) {
	api := newTestAPI(t)
	api.seedSkills(t)

	rr := api.do(t, http.MethodGet, "/api/v1/skill", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decodeBody[domain.PageResult[skill.Skill]](t, rr)
	assert.Equal(t, int64(3), page.Total, "inactive skill hidden by default")
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, filter.DefaultLimit, page.Limit)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Go", page.Data[0].Name)

	q := url.Values{}
	q.Add("filter", "jobCategoryId:equals:cat1")
	q.Set("sort", "-name")
	q.Set("limit", "1")
	rr = api.do(t, http.MethodGet, "/api/v1/skill?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page = decodeBody[domain.PageResult[skill.Skill]](t, rr)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Rust", page.Data[0].Name)
}

func TestListSkills_CallerErrors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		query  string
		status int
		code   string
	}{
		{"unknown field", "filter=description:equals:x", http.StatusBadRequest, "UNKNOWN_FIELD"},
		{"disallowed operator", "filter=isActive:in:true", http.StatusBadRequest, "DISALLOWED_OPERATOR"},
		{"type mismatch", "filter=createdAt:gt:yesterday", http.StatusBadRequest, "TYPE_MISMATCH"},
		{"bad page", "page=-1", http.StatusBadRequest, "INVALID_PAGINATION"},
		{"bad limit", "limit=ten", http.StatusBadRequest, "INVALID_PAGINATION"},
		{"malformed filter", "filter=isActive", http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodGet, "/api/v1/skill?"+tt.query, nil)
			assert.Equal(t, tt.status, rr.Code)
			body := decodeBody[dto.ErrorResponse](t, rr)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestQuerySkills_JSONBody(t *testing.T) {
	api := newTestAPI(t)
	api.seedSkills(t)

	rr := api.do(t, http.MethodPost, "/api/v1/skill/query", map[string]any{
		"filters": []map[string]any{
			{"field": "name", "operator": "in", "value": []string{"Go", "SQL", "Perl"}},
		},
		"sort":  map[string]any{"field": "name", "direction": "desc"},
		"page":  0,
		"limit": 500,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	page := decodeBody[domain.PageResult[skill.Skill]](t, rr)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, filter.DefaultMaxLimit, page.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "SQL", page.Data[0].Name)
}

func TestQuerySkills_BodyPaginationErrors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"string page", map[string]any{"page": "2"}, "INVALID_PAGINATION"},
		{"fractional limit", map[string]any{"limit": 2.5}, "INVALID_PAGINATION"},
		{"negative page", map[string]any{"page": -1}, "INVALID_PAGINATION"},
		{"boolean limit", map[string]any{"limit": true}, "INVALID_PAGINATION"},
		{"filters not a list", map[string]any{"filters": "name"}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodPost, "/api/v1/skill/query", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeBody[dto.ErrorResponse](t, rr).Code)
		})
	}
}

func TestSkillCRUD(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodPost, "/api/v1/skill", map[string]any{
		"name": "Kubernetes", "jobCategoryId": "cat3", "isActive": true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeBody[skill.Skill](t, rr)
	assert.False(t, id.IsNil(created.ID))

	rr = api.do(t, http.MethodPost, "/api/v1/skill", map[string]any{
		"name": "Kubernetes", "jobCategoryId": "cat3",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/v1/skill", map[string]any{"jobCategoryId": "cat3"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	path := "/api/v1/skill/" + created.ID.String()
	rr = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Kubernetes", decodeBody[skill.Skill](t, rr).Name)

	rr = api.do(t, http.MethodPatch, path, map[string]any{"name": "K8s"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "K8s", decodeBody[skill.Skill](t, rr).Name)

	rr = api.do(t, http.MethodPatch, path, map[string]any{"id": id.New().String()})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[dto.ErrorResponse](t, rr).Code)

	rr = api.do(t, http.MethodGet, "/api/v1/skill/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestArchiveRoute(t *testing.T) {
	api := newTestAPI(t)

	app, err := api.applications.Create(t.Context(), jobapplication.New(id.New().String(), "cat1", "Backend Engineer"))
	require.NoError(t, err)

	rr := api.do(t, http.MethodPost, "/api/v1/jobApplication/"+app.ID.String()+"/archive", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/jobApplication/"+app.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/jobApplication", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(0), decodeBody[domain.PageResult[jobapplication.JobApplication]](t, rr).Total)

	// an archived row can still be removed for good
	rr = api.do(t, http.MethodDelete, "/api/v1/jobApplication/"+app.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = api.do(t, http.MethodDelete, "/api/v1/jobApplication/"+app.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// skills have no soft delete, so no archive route
	rr = api.do(t, http.MethodPost, "/api/v1/skill/"+id.New().String()+"/archive", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetaHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/api/v1/meta", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entities := decodeBody[[]dto.EntityResponse](t, rr)
	require.Len(t, entities, 2)
	assert.Equal(t, "jobApplication", entities[0].Name)
	assert.True(t, entities[0].SoftDelete)

	rr = api.do(t, http.MethodGet, "/api/v1/meta/skill", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	skillMeta := decodeBody[dto.EntityResponse](t, rr)
	assert.False(t, skillMeta.SoftDelete)
	names := make([]string, 0, len(skillMeta.Fields))
	for _, f := range skillMeta.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"createdAt", "isActive", "jobCategoryId", "name"}, names)

	rr = api.do(t, http.MethodGet, "/api/v1/meta/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "talentboard_http_requests_total")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
