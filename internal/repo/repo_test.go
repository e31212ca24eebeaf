package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rewear/internal/core/database"
	"rewear/internal/domain"
	"rewear/pkg/utils"
)

func seedUser(t *testing.T, db *gorm.DB, email string, points int) *domain.User {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Email: email, PasswordHash: "x", Points: points}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	return u
}

// seedItem 直接写库，approved/availability 按参数落地
func seedItem(t *testing.T, db *gorm.DB, uploader string, approved, available bool) *domain.Item {
	t.Helper()
	it := &domain.Item{
		ID:           utils.NewID(),
		Name:         "Item " + uploader[:4],
		Uploader:     uploader,
		Approved:     approved,
		Availability: available,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, NewItemRepo(db).Create(context.Background(), it))
	return it
}

func newDB(t *testing.T) *gorm.DB { return database.NewTestDB(t) }
