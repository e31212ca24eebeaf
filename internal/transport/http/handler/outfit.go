package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rewear/internal/domain"
	"rewear/internal/service"
	"rewear/internal/suggest"
	"rewear/internal/transport/http/ez"
)

type Outfit struct {
	svc *service.SuggestionService
	db  *gorm.DB
}

func NewOutfit(svc *service.SuggestionService, db *gorm.DB) *Outfit {
	return &Outfit{svc: svc, db: db}
}

type suggestIn struct {
	Occasion string `json:"occasion" binding:"required"`
}

func (h *Outfit) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[struct{}, []string]{
		Method: http.MethodGet,
		Path:   "/occasions",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(*gin.Context, *struct{}) ([]string, error) {
			return h.svc.Occasions(), nil
		},
	})

	ez.RegisterAction(e, ez.Action[suggestIn, suggest.Outfit]{
		Method: http.MethodPost,
		Path:   "/suggestions",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *suggestIn) (suggest.Outfit, error) {
			out, err := h.svc.Suggest(c, ez.UserID(c), in.Occasion)
			if err != nil {
				return suggest.Outfit{}, err
			}
			return *out, nil
		},
	})

	ez.Crud(ez.CrudConfig[domain.OutfitPlan]{
		DB:         h.db,
		Group:      authed,
		Path:       "/plans",
		New:        func() *domain.OutfitPlan { return &domain.OutfitPlan{} },
		OwnerField: "UserID",
		OrderBy:    "Date ASC",
		Hooks: ez.CrudHooks[domain.OutfitPlan]{
			BeforeCreate: normalizePlan,
			BeforeUpdate: normalizePlan,
			ScopeList:    planRange,
		},
	})
}

// normalizePlan 计划按天记录，统一到 UTC 零点
func normalizePlan(_ *gin.Context, p *domain.OutfitPlan) error {
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalid)
	}
	d := p.Date.UTC()
	p.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// planRange ?from=2026-05-01&to=2026-05-31，闭区间
func planRange(c *gin.Context, q *gorm.DB) (*gorm.DB, error) {
	if s := c.Query("from"); s != "" {
		from, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, ez.BadRequest("from must be YYYY-MM-DD")
		}
		q = q.Where("date >= ?", from)
	}
	if s := c.Query("to"); s != "" {
		to, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, ez.BadRequest("to must be YYYY-MM-DD")
		}
		q = q.Where("date < ?", to.AddDate(0, 0, 1))
	}
	return q, nil
}
