package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rewear/internal/domain"
	"rewear/internal/service"
	"rewear/internal/transport/http/ez"
)

type Market struct {
	catalog   *service.CatalogService
	swaps     *service.SwapService
	redeem    *service.RedemptionService
	dashboard *service.DashboardService
}

func NewMarket(catalog *service.CatalogService, swaps *service.SwapService, redeem *service.RedemptionService, dash *service.DashboardService) *Market {
	return &Market{catalog: catalog, swaps: swaps, redeem: redeem, dashboard: dash}
}

type browseQ struct {
	Category string `form:"category"`
	Style    string `form:"style"`
	Color    string `form:"color"`
	Q        string `form:"q"`
	Offset   int    `form:"offset,default=0"`
	Limit    int    `form:"limit,default=20"`
}

func (h *Market) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[struct{}, service.Dashboard]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (service.Dashboard, error) {
			d, err := h.dashboard.Summary(c, ez.UserID(c))
			if err != nil {
				return service.Dashboard{}, err
			}
			return *d, nil
		},
	})

	ez.RegisterAction(e, ez.Action[browseQ, service.Page[domain.Item]]{
		Method: http.MethodGet,
		Path:   "/marketplace",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *browseQ) (service.Page[domain.Item], error) {
			p, err := h.catalog.Browse(c, ez.UserID(c), domain.BrowseFilter{
				Category: in.Category,
				Style:    in.Style,
				Color:    in.Color,
				Q:        in.Q,
				Offset:   in.Offset,
				Limit:    in.Limit,
			})
			if err != nil {
				return service.Page[domain.Item]{}, err
			}
			return *p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Item]{
		Method: http.MethodGet,
		Path:   "/featured",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Item, error) {
			return h.catalog.Featured(c)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, domain.ItemDetail]{
		Method: http.MethodGet,
		Path:   "/items/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.ItemDetail, error) {
			d, err := h.catalog.Get(c, c.Param("id"))
			if err != nil {
				return domain.ItemDetail{}, err
			}
			return *d, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, domain.Swap]{
		Method: http.MethodPost,
		Path:   "/items/:id/swap",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Swap, error) {
			sw, err := h.swaps.RequestSwap(c, ez.UserID(c), c.Param("id"))
			if err != nil {
				return domain.Swap{}, err
			}
			return *sw, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, domain.RedeemResult]{
		Method: http.MethodPost,
		Path:   "/items/:id/redeem",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.RedeemResult, error) {
			res, err := h.redeem.Redeem(c, ez.UserID(c), c.Param("id"))
			if err != nil {
				return domain.RedeemResult{}, err
			}
			return *res, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Swap]{
		Method: http.MethodGet,
		Path:   "/swaps",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Swap, error) {
			return h.swaps.ListMine(c, ez.UserID(c))
		},
	})
}
