package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rewear/internal/domain"
	"rewear/internal/imaging"
	"rewear/internal/service"
	"rewear/internal/transport/http/ez"
)

// StreamPath 衣橱 SSE 的路由模板，超时/并发中间件需要跳过它
const StreamPath = "/api/v1/wardrobe/stream"

const imagesField = "images"

type Wardrobe struct {
	wardrobe  *service.WardrobeService
	listings  *service.ListingService
	keepalive time.Duration
}

func NewWardrobe(w *service.WardrobeService, l *service.ListingService, keepalive time.Duration) *Wardrobe {
	if keepalive <= 0 {
		keepalive = 25 * time.Second
	}
	return &Wardrobe{wardrobe: w, listings: l, keepalive: keepalive}
}

func (h *Wardrobe) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Item]{
		Method: http.MethodGet,
		Path:   "/wardrobe",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Item, error) {
			return h.wardrobe.List(c, ez.UserID(c))
		},
	})

	authed.GET("/wardrobe/stream", h.stream)

	ez.RegisterAction(e, ez.Action[service.ListingInput, domain.Item]{
		Method: http.MethodPost,
		Path:   "/items",
		Binder: ez.BindForm,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ListingInput) (domain.Item, error) {
			uploads, err := readUploads(c)
			if err != nil {
				return domain.Item{}, err
			}
			it, err := h.listings.Create(c, ez.UserID(c), *in, uploads)
			if err != nil {
				return domain.Item{}, err
			}
			return *it, nil
		},
	})
}

// stream 先推一次完整快照，之后每次变更推一次；客户端断开即释放订阅
func (h *Wardrobe) stream(c *gin.Context) {
	sub, err := h.wardrobe.Subscribe(c.Request.Context(), ez.UserID(c))
	if err != nil {
		ez.Fail(c, err)
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ping := time.NewTicker(h.keepalive)
	defer ping.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case items, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("wardrobe", items)
			return true
		case t := <-ping.C:
			c.SSEvent("ping", t.Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func readUploads(c *gin.Context) ([]service.Upload, error) {
	files, err := ez.FormFiles(c, imagesField)
	if err != nil {
		return nil, err
	}
	out := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > imaging.MaxBytes {
			return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalid, fh.Filename, imaging.MaxBytes)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, ez.BadRequest("open upload: " + err.Error())
		}
		data, err := io.ReadAll(io.LimitReader(f, imaging.MaxBytes+1))
		f.Close()
		if err != nil {
			return nil, ez.BadRequest("read upload: " + err.Error())
		}
		out = append(out, service.Upload{Filename: fh.Filename, Data: data})
	}
	return out, nil
}
