package domain

import (
	"context"
	"time"
)

// Item 一件衣物。Approved 默认 false，只有审核通过才进入市场
type Item struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Name              string    `gorm:"size:128;not null" json:"name"`
	Description       string    `gorm:"type:text" json:"description"`
	Category          string    `gorm:"size:64;index" json:"category"`
	Style             string    `gorm:"size:64" json:"style"`
	DominantColor     string    `gorm:"size:32" json:"dominantColor"`
	SuitableOccasions string    `gorm:"size:255" json:"suitableOccasions"`
	ImageURLs         []string  `gorm:"serializer:json;type:text" json:"imageUrls"`
	Condition         string    `gorm:"size:32" json:"condition"`
	Size              string    `gorm:"size:16" json:"size"`
	Tags              []string  `gorm:"serializer:json;type:text" json:"tags"`
	Uploader          string    `gorm:"size:36;not null;index" json:"uploader"`
	Availability      bool      `gorm:"not null;index" json:"availability"`
	Approved          bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt         time.Time `json:"timestamp"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return "items" }

// Listed 市场可见：已审核 + 可用
func (it Item) Listed() bool { return it.Approved && it.Availability }

// ItemDetail 详情页需要上传者邮箱
type ItemDetail struct {
	Item
	UploaderEmail string `json:"uploaderEmail"`
}

// UnknownUploader 上传者记录已不存在时的占位
const UnknownUploader = "Unknown"

// FeaturedItem 首页精选，priority 越小越靠前
type FeaturedItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ItemID    string    `gorm:"size:36;not null;uniqueIndex" json:"itemId"`
	Priority  int       `gorm:"not null;default:100;index" json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

func (FeaturedItem) TableName() string { return "featured_items" }

type BrowseFilter struct {
	Category string
	Style    string
	Color    string
	Q        string
	Offset   int
	Limit    int
}

type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	SetImageURLs(ctx context.Context, id string, urls []string) error
	ListByUploader(ctx context.Context, uid string) ([]Item, error)
	CountByUploader(ctx context.Context, uid string) (int64, error)
	Browse(ctx context.Context, viewer string, f BrowseFilter) ([]Item, int64, error)
	ListPending(ctx context.Context) ([]Item, error)
	Approve(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Featured(ctx context.Context, limit int) ([]Item, error)
	UpsertFeatured(ctx context.Context, f *FeaturedItem) error
	DeleteFeatured(ctx context.Context, itemID string) (bool, error)
}
