package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewear/internal/core/database"
	"rewear/internal/domain"
	resp "rewear/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrNotFound, resp.CodeNotFound},
		{fmt.Errorf("redeem: %w", domain.ErrInsufficientBalance), resp.CodeUnprocessable},
		{domain.ErrUnauthorized, resp.CodeUnauthorized},
		{domain.ErrForbidden, resp.CodeForbidden},
		{domain.ErrUnavailable, resp.CodeConflict},
		{domain.ErrConflict, resp.CodeConflict},
		{fmt.Errorf("%w: name", domain.ErrInvalid), resp.CodeBadRequest},
		{domain.Store("items.find", errors.New("conn reset")), resp.CodeUnavailable},
		{NotFound("plan not found"), resp.CodeNotFound},
		{errors.New("boom"), resp.CodeServerError},
	}
	for _, tc := range cases {
		code, _ := Code(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}

	_, msg := Code(fmt.Errorf("wrap: %w", domain.ErrInsufficientBalance))
	assert.Equal(t, "You don't have enough points to redeem this item.", msg)
	_, msg = Code(errors.New("dsn password=hunter2"))
	assert.Empty(t, msg)
}

func TestRegisterActionAuthAndRoles(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(CtxUserID, uid)
			c.Set(CtxRole, c.GetHeader("X-Test-Role"))
		}
	})
	type in struct {
		Name string `json:"name" binding:"required"`
	}
	RegisterAction(New(r.Group("")), Action[in, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *in) (gin.H, error) {
			if in.Name == "missing" {
				return nil, domain.ErrNotFound
			}
			return gin.H{"name": in.Name, "uid": UserID(c)}, nil
		},
	})

	call := func(uid, role, body string) envelope {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", uid)
		req.Header.Set("X-Test-Role", role)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var out envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	assert.Equal(t, resp.CodeUnauthorized, call("", "", `{"name":"a"}`).Code)
	assert.Equal(t, resp.CodeForbidden, call("u1", domain.RoleUser, `{"name":"a"}`).Code)
	assert.Equal(t, resp.CodeBadRequest, call("u1", domain.RoleAdmin, `{}`).Code)
	assert.Equal(t, resp.CodeNotFound, call("u1", domain.RoleAdmin, `{"name":"missing"}`).Code)

	ok := call("u1", domain.RoleAdmin, `{"name":"a"}`)
	assert.Equal(t, resp.CodeOK, ok.Code)
	assert.JSONEq(t, `{"name":"a","uid":"u1"}`, string(ok.Data))
}

func TestCrudScopesToOwner(t *testing.T) {
	db := database.NewTestDB(t)
	r := gin.New()
	g := r.Group("/plans")
	g.Use(func(c *gin.Context) { c.Set(CtxUserID, c.GetHeader("X-Test-User")) })
	Crud(CrudConfig[domain.OutfitPlan]{
		DB:         db,
		Group:      g,
		Path:       "",
		New:        func() *domain.OutfitPlan { return &domain.OutfitPlan{} },
		OwnerField: "UserID",
		OrderBy:    "Date ASC",
	})

	as := func(uid, method, path, body string) envelope {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", uid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var out envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	created := as("alice", http.MethodPost, "/plans", `{"date":"`+date+`","suggestion":"Denim","userId":"mallory"}`)
	require.Equal(t, resp.CodeOK, created.Code, created.Msg)
	var plan domain.OutfitPlan
	require.NoError(t, json.Unmarshal(created.Data, &plan))
	assert.Equal(t, "alice", plan.UserID)
	assert.NotEmpty(t, plan.ID)

	assert.Equal(t, resp.CodeNotFound, as("bob", http.MethodGet, "/plans/"+plan.ID, "").Code)
	assert.Equal(t, resp.CodeNotFound, as("bob", http.MethodDelete, "/plans/"+plan.ID, "").Code)
	assert.Equal(t, resp.CodeOK, as("alice", http.MethodGet, "/plans/"+plan.ID, "").Code)

	upd := as("alice", http.MethodPut, "/plans/"+plan.ID, `{"date":"`+date+`","suggestion":"Linen"}`)
	require.Equal(t, resp.CodeOK, upd.Code, upd.Msg)

	list := as("alice", http.MethodGet, "/plans", "")
	require.Equal(t, resp.CodeOK, list.Code)
	var page struct {
		List  []domain.OutfitPlan `json:"list"`
		Total int64               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &page))
	require.Len(t, page.List, 1)
	assert.Equal(t, "Linen", page.List[0].Suggestion)

	bobs := as("bob", http.MethodGet, "/plans", "")
	require.NoError(t, json.Unmarshal(bobs.Data, &page))
	assert.Empty(t, page.List)

	assert.Equal(t, resp.CodeOK, as("alice", http.MethodDelete, "/plans/"+plan.ID, "").Code)
	assert.Equal(t, resp.CodeNotFound, as("alice", http.MethodGet, "/plans/"+plan.ID, "").Code)
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "created_at", toSnake("CreatedAt"))
	assert.Equal(t, "id", toSnake("ID"))
	assert.Equal(t, "user_id", toSnake("UserID"))
}
