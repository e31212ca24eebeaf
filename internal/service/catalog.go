package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rewear/internal/core/cache"
	"rewear/internal/domain"
)

const (
	featuredLimit     = 5
	defaultPageSize   = 20
	maxPageSize       = 100
	featuredCacheName = "featured"
)

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// CatalogService 市场浏览、物品详情、首页精选。详情和精选走缓存（可选）
type CatalogService struct {
	items domain.ItemRepository
	users domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCatalogService(items domain.ItemRepository, users domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogService{items: items, users: users, cache: c, ttl: ttl, log: l}
}

// Browse 别人的、已审核、可用的物品
func (s *CatalogService) Browse(ctx context.Context, viewer string, f domain.BrowseFilter) (*Page[domain.Item], error) {
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
	f.Offset = max(0, f.Offset)
	items, total, err := s.items.Browse(ctx, viewer, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return &Page[domain.Item]{Items: items, Total: total}, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.ItemDetail, error) {
	d, err := cache.GetOrLoadJSON(s.cache, ctx, s.cache.Key("item", id), s.ttl, func(ctx context.Context) (*domain.ItemDetail, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (s *CatalogService) load(ctx context.Context, id string) (*domain.ItemDetail, error) {
	it, err := s.items.FindByID(ctx, id)
	if err != nil || it == nil {
		return nil, err
	}
	d := &domain.ItemDetail{Item: *it, UploaderEmail: domain.UnknownUploader}
	if it.Uploader != "" {
		u, err := s.users.FindByID(ctx, it.Uploader)
		if err != nil {
			return nil, err
		}
		if u != nil {
			d.UploaderEmail = u.Email
		}
	}
	return d, nil
}

type featuredList struct {
	Items []domain.Item `json:"items"`
}

func (s *CatalogService) Featured(ctx context.Context) ([]domain.Item, error) {
	fl, err := cache.GetOrLoadJSON(s.cache, ctx, s.cache.Key(featuredCacheName), s.ttl, func(ctx context.Context) (*featuredList, error) {
		items, err := s.items.Featured(ctx, featuredLimit)
		if err != nil {
			return nil, err
		}
		return &featuredList{Items: items}, nil
	})
	if err != nil {
		return nil, err
	}
	if fl == nil || fl.Items == nil {
		return []domain.Item{}, nil
	}
	return fl.Items, nil
}

// Invalidate 写操作提交后调用
func (s *CatalogService) Invalidate(ctx context.Context, itemIDs ...string) {
	keys := []string{s.cache.Key(featuredCacheName)}
	for _, id := range itemIDs {
		keys = append(keys, s.cache.Key("item", id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
