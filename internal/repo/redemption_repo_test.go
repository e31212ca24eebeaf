package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewear/internal/domain"
)

func TestRedeemSuccess(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	buyer := seedUser(t, db, "buyer@x.io", 250)
	owner := seedUser(t, db, "owner@x.io", 0)
	it := seedItem(t, db, owner.ID, true, true)

	res, err := NewRedemptionRepo(db).Redeem(ctx, buyer.ID, it.ID, domain.RedemptionPrice)
	require.NoError(t, err)
	assert.Equal(t, 150, res.Balance)
	assert.False(t, res.Item.Availability)
	assert.Equal(t, domain.RedemptionPrice, res.Redemption.Points)

	u, _ := NewUserRepo(db).FindByID(ctx, buyer.ID)
	assert.Equal(t, 150, u.Points)
	got, _ := NewItemRepo(db).FindByID(ctx, it.ID)
	assert.False(t, got.Availability)

	var n int64
	require.NoError(t, db.Model(&domain.Redemption{}).Where("item_id = ?", it.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRedeemInsufficientBalanceNoMutation(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	buyer := seedUser(t, db, "buyer@x.io", 50)
	owner := seedUser(t, db, "owner@x.io", 0)
	it := seedItem(t, db, owner.ID, true, true)

	_, err := NewRedemptionRepo(db).Redeem(ctx, buyer.ID, it.ID, domain.RedemptionPrice)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	u, _ := NewUserRepo(db).FindByID(ctx, buyer.ID)
	assert.Equal(t, 50, u.Points)
	got, _ := NewItemRepo(db).FindByID(ctx, it.ID)
	assert.True(t, got.Availability)
}

func TestRedeemErrors(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	r := NewRedemptionRepo(db)
	buyer := seedUser(t, db, "buyer@x.io", 500)
	owner := seedUser(t, db, "owner@x.io", 500)
	gone := seedItem(t, db, owner.ID, true, false)
	pending := seedItem(t, db, owner.ID, false, true)
	own := seedItem(t, db, buyer.ID, true, true)

	_, err := r.Redeem(ctx, "ghost", gone.ID, domain.RedemptionPrice)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Redeem(ctx, buyer.ID, "ghost", domain.RedemptionPrice)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Redeem(ctx, buyer.ID, gone.ID, domain.RedemptionPrice)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	_, err = r.Redeem(ctx, buyer.ID, pending.ID, domain.RedemptionPrice)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	_, err = r.Redeem(ctx, buyer.ID, own.ID, domain.RedemptionPrice)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, _ := NewUserRepo(db).FindByID(ctx, buyer.ID)
	assert.Equal(t, 500, u.Points)
}

// 余额只够一次时，并发兑换最多成功一次，余额不为负
func TestRedeemConcurrentSameUser(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	r := NewRedemptionRepo(db)
	buyer := seedUser(t, db, "buyer@x.io", 150)
	owner := seedUser(t, db, "owner@x.io", 0)

	const n = 8
	items := make([]*domain.Item, n)
	for i := range items {
		items[i] = seedItem(t, db, owner.ID, true, true)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := r.Redeem(ctx, buyer.ID, id, domain.RedemptionPrice)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
				return
			}
			errs = append(errs, err)
		}(items[i].ID)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	}
	u, _ := NewUserRepo(db).FindByID(ctx, buyer.ID)
	assert.Equal(t, 50, u.Points)

	var unavailable int64
	require.NoError(t, db.Model(&domain.Item{}).Where("availability = ?", false).Count(&unavailable).Error)
	assert.EqualValues(t, 1, unavailable)
}

// 同一物品被多人同时兑换，只有一人扣分
func TestRedeemConcurrentSameItem(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	r := NewRedemptionRepo(db)
	owner := seedUser(t, db, "owner@x.io", 0)
	it := seedItem(t, db, owner.ID, true, true)

	const n = 6
	buyers := make([]*domain.User, n)
	for i := range buyers {
		buyers[i] = seedUser(t, db, string(rune('a'+i))+"@x.io", 100)
	}

	var wg sync.WaitGroup
	results := make([]error, n)
	for i := range buyers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = r.Redeem(ctx, buyers[i].ID, it.ID, domain.RedemptionPrice)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	}
	assert.Equal(t, 1, ok)

	var total int64
	require.NoError(t, db.Model(&domain.User{}).Select("COALESCE(SUM(points),0)").Where("id <> ?", owner.ID).Scan(&total).Error)
	assert.EqualValues(t, n*100-domain.RedemptionPrice, total)
}
