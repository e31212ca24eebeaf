package ez

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	resp "rewear/internal/transport/http/response"
	"rewear/pkg/utils"
)

type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	BeforeUpdate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) (*gorm.DB, error) // 自定义筛选/排序
	AfterGet     func(c *gin.Context, m *T)
}

// CrudConfig 按当前用户归属的资源 CRUD。Group 必须已挂鉴权中间件
type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowUpdate bool
	AllowDelete bool

	IDField    string // 默认 "ID"
	OwnerField string // 默认依次尝试 "OwnerID"、"UserID"、"UID"

	IDGen func() string // 默认 utils.NewID

	// 列表排序（按模型字段名写，自动转 snake_case），为空则按 ID DESC
	OrderBy string
}

func (c *CrudConfig[T]) idFields() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID", "Id"}
	}
	return []string{"ID", "Id"}
}

func (c *CrudConfig[T]) ownerFields() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "OwnerID", "UserID", "UID"}
	}
	return []string{"OwnerID", "UserID", "UID"}
}

func stringField(obj any, candidates []string) (*string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	v = v.Elem()
	for _, cand := range candidates {
		f, ok := v.Type().FieldByName(cand)
		if !ok || !f.IsExported() || len(f.Index) != 1 {
			continue
		}
		fv := v.Field(f.Index[0])
		if fv.Kind() == reflect.String && fv.CanSet() {
			return fv.Addr().Interface().(*string), true
		}
	}
	return nil, false
}

func setField(obj any, candidates []string, val string) bool {
	p, ok := stringField(obj, candidates)
	if ok {
		*p = val
	}
	return ok
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func toSnake(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			// ID、URL 这类连续大写不拆
			if i > 0 && !unicode.IsUpper(rs[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// orderClause "CreatedAt DESC" → created_at DESC
func orderClause(s string) clause.OrderByColumn {
	parts := strings.Fields(s)
	col := clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}
	if len(parts) == 0 {
		return col
	}
	col.Column.Name = toSnake(parts[0])
	col.Desc = len(parts) > 1 && strings.EqualFold(parts[1], "desc")
	return col
}

// Crud 注册 POST/GET/GET :id/PUT :id/DELETE :id，全部限定在当前用户名下
func Crud[T any](cfg CrudConfig[T]) {
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowUpdate && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowUpdate, cfg.AllowDelete = true, true, true, true, true
	}
	if cfg.IDGen == nil {
		cfg.IDGen = utils.NewID
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = cfg.idFields()[0] + " DESC"
	}
	ids, owners := cfg.idFields(), cfg.ownerFields()

	// 归属过滤：结构体 Where 自动映射列名
	owned := func(uid, id string) *T {
		f := cfg.New()
		setField(f, owners, uid)
		if id != "" {
			setField(f, ids, id)
		}
		return f
	}
	withUser := func(h func(c *gin.Context, uid string)) gin.HandlerFunc {
		return func(c *gin.Context) {
			uid := UserID(c)
			if uid == "" {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			h(c, uid)
		}
	}
	find := func(c *gin.Context, uid, id string) (*T, bool) {
		m := cfg.New()
		err := cfg.DB.WithContext(c).Where(owned(uid, id)).First(m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return nil, false
		}
		if err != nil {
			Fail(c, err)
			return nil, false
		}
		return m, true
	}

	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, withUser(func(c *gin.Context, uid string) {
			m := cfg.New()
			if err := c.ShouldBindJSON(m); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			if !setField(m, owners, uid) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "owner field not found"))
				return
			}
			if p, ok := stringField(m, ids); ok {
				*p = cfg.IDGen()
			}
			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
					Fail(c, err)
					return
				}
			}
			if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
				Fail(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			c.JSON(http.StatusOK, resp.OK(m))
		}))
	}

	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, withUser(func(c *gin.Context, uid string) {
			page := atoiDefault(c.Query("page"), 1)
			size := atoiDefault(c.Query("size"), 20)
			if size > 100 {
				size = 20
			}

			q := cfg.DB.WithContext(c).Model(cfg.New()).Where(owned(uid, ""))
			if cfg.Hooks.ScopeList != nil {
				var err error
				if q, err = cfg.Hooks.ScopeList(c, q); err != nil {
					Fail(c, err)
					return
				}
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				Fail(c, err)
				return
			}
			items := make([]T, 0)
			if err := q.Order(orderClause(cfg.OrderBy)).Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
				Fail(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				for i := range items {
					cfg.Hooks.AfterGet(c, &items[i])
				}
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{
				"list": items, "total": total, "page": page, "size": size,
			}))
		}))
	}

	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", withUser(func(c *gin.Context, uid string) {
			m, ok := find(c, uid, c.Param("id"))
			if !ok {
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, m)
			}
			c.JSON(http.StatusOK, resp.OK(m))
		}))
	}

	if cfg.AllowUpdate {
		cfg.Group.PUT(cfg.Path+"/:id", withUser(func(c *gin.Context, uid string) {
			id := c.Param("id")
			if _, ok := find(c, uid, id); !ok {
				return
			}
			in := cfg.New()
			if err := c.ShouldBindJSON(in); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			// ID / 归属不允许被请求体改写
			setField(in, ids, id)
			setField(in, owners, uid)

			if cfg.Hooks.BeforeUpdate != nil {
				if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
					Fail(c, err)
					return
				}
			}
			if err := cfg.DB.WithContext(c).Model(cfg.New()).Where(owned(uid, id)).Updates(in).Error; err != nil {
				Fail(c, err)
				return
			}
			if cfg.Hooks.AfterGet != nil {
				cfg.Hooks.AfterGet(c, in)
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
		}))
	}

	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", withUser(func(c *gin.Context, uid string) {
			id := c.Param("id")
			res := cfg.DB.WithContext(c).Where(owned(uid, id)).Delete(cfg.New())
			if res.Error != nil {
				Fail(c, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
		}))
	}
}
