package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rewear/internal/domain"
)

type ItemRepo struct{ db *gorm.DB }

func NewItemRepo(db *gorm.DB) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) Create(ctx context.Context, it *domain.Item) error {
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return domain.Store("create item", r.db.WithContext(ctx).Create(it).Error)
}

func (r *ItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	var it domain.Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("find item", err)
	}
	return &it, nil
}

func (r *ItemRepo) SetImageURLs(ctx context.Context, id string, urls []string) error {
	// Select 显式指定列，serializer 字段才会被写入
	res := r.db.WithContext(ctx).Model(&domain.Item{ID: id}).
		Select("ImageURLs").Updates(&domain.Item{ImageURLs: urls})
	if res.Error != nil {
		return domain.Store("patch item images", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) ListByUploader(ctx context.Context, uid string) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("uploader = ?", uid).
		Order("created_at DESC").Order("id").
		Find(&items).Error
	return items, domain.Store("list wardrobe", err)
}

func (r *ItemRepo) CountByUploader(ctx context.Context, uid string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).Where("uploader = ?", uid).Count(&n).Error
	return n, domain.Store("count wardrobe", err)
}

// Browse 市场：已审核、可用、且不是自己上传的
func (r *ItemRepo) Browse(ctx context.Context, viewer string, f domain.BrowseFilter) ([]domain.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("approved = ? AND availability = ? AND uploader <> ?", true, true, viewer)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Style != "" {
		q = q.Where("style = ?", f.Style)
	}
	if f.Color != "" {
		q = q.Where("LOWER(dominant_color) = ?", strings.ToLower(f.Color))
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, domain.Store("count marketplace", err)
	}
	var items []domain.Item
	if err := q.Order("created_at DESC").Order("id").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, domain.Store("browse marketplace", err)
	}
	return items, total, nil
}

func (r *ItemRepo) ListPending(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("approved = ?", false).
		Order("created_at ASC").Order("id").
		Find(&items).Error
	return items, domain.Store("list pending", err)
}

// Approve 返回记录是否存在；已审核的再审一次不算错
func (r *ItemRepo) Approve(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Update("approved", true)
	if res.Error != nil {
		return false, domain.Store("approve item", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// MySQL 对未变化的行返回 0，需要再确认一次存在性
	return r.Exists(ctx, id)
}

// Delete 只删记录，图片不清理
func (r *ItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&domain.Item{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return tx.Where("item_id = ?", id).Delete(&domain.FeaturedItem{}).Error
	})
	if err != nil {
		return false, domain.Store("delete item", err)
	}
	return deleted, nil
}

func (r *ItemRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, domain.Store("item exists", err)
	}
	return n > 0, nil
}

// Featured 按 priority 升序取前 limit 个；关联不到的、未审核的、已兑换的都跳过
func (r *ItemRepo) Featured(ctx context.Context, limit int) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Select("items.*").
		Joins("JOIN featured_items ON featured_items.item_id = items.id").
		Where("items.approved = ? AND items.availability = ?", true, true).
		Order("featured_items.priority ASC").Order("items.id").
		Limit(limit).
		Find(&items).Error
	return items, domain.Store("list featured", err)
}

func (r *ItemRepo) UpsertFeatured(ctx context.Context, f *domain.FeaturedItem) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"priority"}),
	}).Create(f).Error
	return domain.Store("feature item", err)
}

func (r *ItemRepo) DeleteFeatured(ctx context.Context, itemID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&domain.FeaturedItem{})
	if res.Error != nil {
		return false, domain.Store("unfeature item", res.Error)
	}
	return res.RowsAffected > 0, nil
}
