package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"rewear/internal/core/events"
	"rewear/internal/domain"
	"rewear/internal/feed"
	"rewear/internal/imaging"
	"rewear/internal/storage"
	"rewear/pkg/utils"
)

type ListingInput struct {
	Name              string   `json:"name" form:"name" binding:"required,max=128"`
	Description       string   `json:"description" form:"description"`
	Category          string   `json:"category" form:"category"`
	Style             string   `json:"style" form:"style"`
	DominantColor     string   `json:"dominantColor" form:"dominantColor"`
	SuitableOccasions string   `json:"suitableOccasions" form:"suitableOccasions"`
	Condition         string   `json:"condition" form:"condition"`
	Size              string   `json:"size" form:"size"`
	Tags              []string `json:"tags" form:"tags"`
}

type Upload struct {
	Filename string
	Data     []byte
}

// ListingError 第一步之后的失败，记录已建好但没有图片的物品 ID
type ListingError struct {
	ItemID string
	Err    error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %s incomplete: %v", e.ItemID, e.Err)
}
func (e *ListingError) Unwrap() error { return e.Err }

type ListingService struct {
	items    domain.ItemRepository
	blobs    storage.Store
	catalog  *CatalogService
	notifier feed.Notifier
	events   events.Publisher
	log      *zap.Logger
}

func NewListingService(items domain.ItemRepository, blobs storage.Store, catalog *CatalogService, n feed.Notifier, p events.Publisher, l *zap.Logger) *ListingService {
	return &ListingService{items: items, blobs: blobs, catalog: catalog, notifier: n, events: p, log: l}
}

// Create 三步：建记录（无图、未审核）→ 逐张上传 → 回填图片地址。
// 第一步之后出错不回滚，残留的记录不会被审核通过。
func (s *ListingService) Create(ctx context.Context, uid string, in ListingInput, uploads []Upload) (*domain.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalid)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalid)
	}

	it := &domain.Item{
		ID:                utils.NewID(),
		Name:              in.Name,
		Description:       strings.TrimSpace(in.Description),
		Category:          strings.TrimSpace(in.Category),
		Style:             strings.TrimSpace(in.Style),
		DominantColor:     strings.TrimSpace(in.DominantColor),
		SuitableOccasions: strings.TrimSpace(in.SuitableOccasions),
		Condition:         strings.TrimSpace(in.Condition),
		Size:              strings.TrimSpace(in.Size),
		Tags:              cleanTags(in.Tags),
		ImageURLs:         []string{},
		Uploader:          uid,
		Availability:      true,
		Approved:          false,
		CreatedAt:         time.Now(),
	}
	if err := s.items.Create(ctx, it); err != nil {
		listingsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	// 记录已存在：衣橱需要刷新，中途被读进缓存的无图详情也要丢掉
	defer func() {
		bg := context.WithoutCancel(ctx)
		s.catalog.Invalidate(bg, it.ID)
		s.notifier.Notify(bg, uid)
	}()

	urls, err := s.upload(ctx, uid, it.ID, uploads)
	if err != nil {
		listingsTotal.WithLabelValues("partial").Inc()
		s.log.Warn("listing left without images", zap.String("item", it.ID), zap.Error(err))
		return nil, &ListingError{ItemID: it.ID, Err: err}
	}
	if err := s.items.SetImageURLs(ctx, it.ID, urls); err != nil {
		listingsTotal.WithLabelValues("partial").Inc()
		return nil, &ListingError{ItemID: it.ID, Err: err}
	}
	it.ImageURLs = urls
	listingsTotal.WithLabelValues("ok").Inc()

	if err := s.events.Publish(ctx, events.Event{Type: events.ItemListed, ItemID: it.ID, UserID: uid}); err != nil {
		s.log.Warn("publish item.listed failed", zap.Error(err))
	}
	return it, nil
}

func (s *ListingService) upload(ctx context.Context, uid, itemID string, uploads []Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	seen := make(map[string]int)
	for i, up := range uploads {
		img, err := imaging.Process(bytes.NewReader(up.Data))
		if err != nil {
			if errors.Is(err, imaging.ErrUnsupported) {
				err = fmt.Errorf("%w: %s: %v", domain.ErrInvalid, up.Filename, err)
			}
			return nil, err
		}
		name := imaging.Filename(up.Filename, i)
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s_%d.jpg", strings.TrimSuffix(name, ".jpg"), n+1)
		}
		seen[name]++
		url, err := s.blobs.Put(ctx, storage.ImageKey(uid, itemID, name), img.Data, img.MIME)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool)
	for _, t := range in {
		for _, part := range strings.Split(t, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}
