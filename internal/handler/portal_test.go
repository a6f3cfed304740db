package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdo10/loopin/internal/config"
	"github.com/qdo10/loopin/internal/model"
	"github.com/qdo10/loopin/internal/utils"
)

// ----- in-memory fakes for the portal's narrow interfaces -----

type fakeProjects map[string]model.Project

func (f fakeProjects) ActiveByShareToken(_ context.Context, token string) (model.Project, error) {
	p, ok := f[token]
	if !ok {
		return model.Project{}, sql.ErrNoRows
	}
	return p, nil
}

type fakeUsers struct{ owner model.User }

func (f fakeUsers) GetByID(context.Context, uint64) (model.User, error) { return f.owner, nil }

type fakeMilestones []model.Milestone

func (f fakeMilestones) ListByProject(context.Context, uint64) ([]model.Milestone, error) {
	return f, nil
}

type fakeUpdates []model.Update

func (f fakeUpdates) ListByProject(context.Context, uint64) ([]model.Update, error) { return f, nil }

type fakeDeliverables []model.Deliverable

func (f fakeDeliverables) ListByProject(context.Context, uint64) ([]model.Deliverable, error) {
	return f, nil
}

type fakeComments struct {
	items  []model.Comment
	nextID uint64
}

func (f *fakeComments) Create(_ context.Context, c *model.Comment) error {
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now().UTC()
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeComments) ListByProject(_ context.Context, projectID uint64) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.items {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeViews struct{ recorded int }

func (f *fakeViews) Record(context.Context, uint64, *string, *string) error {
	f.recorded++
	return nil
}

// ----- fixture -----

type portalFixture struct {
	e        *echo.Echo
	h        *PortalHandler
	comments *fakeComments
	views    *fakeViews
}

func newPortalFixture(t *testing.T, projects fakeProjects) *portalFixture {
	t.Helper()
	cfg := config.Config{JWTSecret: "test-secret", PortalTTLMin: 60}
	comments := &fakeComments{}
	views := &fakeViews{}
	biz := "Acme Studio"
	owner := model.User{ID: 1, BusinessName: &biz, BrandColor: "#6366f1"}

	h := NewPortalHandler(cfg, projects, fakeUsers{owner: owner},
		fakeMilestones{{ID: 1, Title: "Design", Status: "complete"}, {ID: 2, Title: "Build", Status: "not_started"}},
		fakeUpdates{}, fakeDeliverables{}, comments, views)
	return &portalFixture{e: echo.New(), h: h, comments: comments, views: views}
}

func (f *portalFixture) request(method, body string, headers map[string]string, token string) (echo.Context, *httptest.ResponseRecorder) {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues(token)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

// ----- tests -----

func TestPortalShowUnknownToken(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t, fakeProjects{})

	c, rec := f.request(http.MethodGet, "", nil, "missing")
	require.NoError(t, f.h.Show(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortalShowOpenProject(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Name: "Site Redesign", ClientName: "Dana", Status: "active"},
	})

	c, rec := f.request(http.MethodGet, "", nil, "tok")
	require.NoError(t, f.h.Show(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	project := body["project"].(map[string]any)
	assert.Equal(t, "Site Redesign", project["name"])
	assert.Equal(t, float64(50), body["progress"])

	branding := body["branding"].(map[string]any)
	assert.Equal(t, "Acme Studio", branding["business_name"])
	assert.Equal(t, "#6366f1", branding["brand_color"])
}

func TestPortalShowProtectedWithoutPassword(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Name: "Secret", Status: "active", PasswordHash: &hash},
	})

	c, rec := f.request(http.MethodGet, "", nil, "tok")
	require.NoError(t, f.h.Show(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "password_required", decodeBody(t, rec)["reason"])
}

func TestPortalVerifyAndTokenReuse(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Name: "Secret", Status: "active", PasswordHash: &hash},
	})

	// wrong password
	c, rec := f.request(http.MethodPost, `{"password":"guess"}`, nil, "tok")
	require.NoError(t, f.h.Verify(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "incorrect_password", decodeBody(t, rec)["reason"])

	// empty password
	c, rec = f.request(http.MethodPost, `{"password":""}`, nil, "tok")
	require.NoError(t, f.h.Verify(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// correct password issues a portal token
	c, rec = f.request(http.MethodPost, `{"password":"hunter2"}`, nil, "tok")
	require.NoError(t, f.h.Verify(c))
	require.Equal(t, http.StatusOK, rec.Code)
	pt, _ := decodeBody(t, rec)["portal_token"].(string)
	require.NotEmpty(t, pt)

	// the token substitutes for the password on the read
	c, rec = f.request(http.MethodGet, "", map[string]string{"X-Portal-Token": pt}, "tok")
	require.NoError(t, f.h.Show(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPortalTokenForOtherProjectRejected(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Status: "active", PasswordHash: &hash},
	})

	// token minted for a different project id
	other, err := utils.NewPortalToken("test-secret", 1234, time.Minute)
	require.NoError(t, err)

	c, rec := f.request(http.MethodGet, "", map[string]string{"X-Portal-Token": other.Token}, "tok")
	require.NoError(t, f.h.Show(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortalVerifyUnknownToken(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t, fakeProjects{})

	c, rec := f.request(http.MethodPost, `{"password":"x"}`, nil, "missing")
	require.NoError(t, f.h.Verify(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortalCreateComment(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Status: "active"},
	})

	// missing fields
	c, rec := f.request(http.MethodPost, `{"author_name":"  ","content":""}`, nil, "tok")
	require.NoError(t, f.h.CreateComment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// valid comment, fields trimmed
	c, rec = f.request(http.MethodPost, `{"author_name":"  Dana ","content":" Looks great! "}`, nil, "tok")
	require.NoError(t, f.h.CreateComment(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, f.comments.items, 1)
	got := f.comments.items[0]
	assert.Equal(t, uint64(9), got.ProjectID)
	assert.Equal(t, "Dana", got.AuthorName)
	assert.Equal(t, "Looks great!", got.Content)
	assert.Nil(t, got.AuthorEmail)

	// unknown portal cannot be commented on
	c, rec = f.request(http.MethodPost, `{"author_name":"Dana","content":"hi"}`, nil, "missing")
	require.NoError(t, f.h.CreateComment(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, f.comments.items, 1)
}

func TestPortalCreateCommentBehindPasswordGate(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Status: "active", PasswordHash: &hash},
	})

	// without a portal token the comment is rejected
	c, rec := f.request(http.MethodPost, `{"author_name":"Dana","content":"hi"}`, nil, "tok")
	require.NoError(t, f.h.CreateComment(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.comments.items)

	pt, err := utils.NewPortalToken("test-secret", 9, time.Minute)
	require.NoError(t, err)
	c, rec = f.request(http.MethodPost, `{"author_name":"Dana","content":"hi"}`,
		map[string]string{"X-Portal-Token": pt.Token}, "tok")
	require.NoError(t, f.h.CreateComment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, f.comments.items, 1)
}

func TestPortalListComments(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Status: "active"},
	})
	f.comments.items = []model.Comment{
		{ID: 1, ProjectID: 9, AuthorName: "Dana", Content: "first"},
		{ID: 2, ProjectID: 8, AuthorName: "Eve", Content: "other project"},
	}

	c, rec := f.request(http.MethodGet, "", nil, "tok")
	require.NoError(t, f.h.ListComments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	list := body["comments"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "Dana", first["AuthorName"])
}

func TestPortalRecordView(t *testing.T) {
	t.Parallel()
	f := newPortalFixture(t, fakeProjects{
		"tok": {ID: 9, UserID: 1, Status: "active"},
	})

	c, rec := f.request(http.MethodPost, "", nil, "tok")
	require.NoError(t, f.h.RecordView(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, f.views.recorded)

	// denied viewers never count as views
	c, rec = f.request(http.MethodPost, "", nil, "missing")
	require.NoError(t, f.h.RecordView(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, f.views.recorded)
}
