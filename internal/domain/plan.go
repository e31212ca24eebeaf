package domain

import "time"

// OutfitPlan 日历上的穿搭计划，按 UserID 归属
type OutfitPlan struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;not null;index" json:"userId"`
	Date       time.Time `gorm:"not null;index" json:"date" binding:"required"`
	Suggestion string    `gorm:"type:text" json:"suggestion" binding:"required"`
	Reasoning  string    `gorm:"type:text" json:"reasoning"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (OutfitPlan) TableName() string { return "outfit_plans" }

// Models AutoMigrate 清单
func Models() []any {
	return []any{&User{}, &Item{}, &Swap{}, &FeaturedItem{}, &Redemption{}, &OutfitPlan{}}
}
