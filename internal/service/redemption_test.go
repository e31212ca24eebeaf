package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewear/internal/core/events"
	"rewear/internal/domain"
)

func TestRedeem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	buyer := e.user(t, "buyer@example.com", 150)
	owner := e.user(t, "owner@example.com", 0)
	it := e.item(t, owner.ID, true)

	sub, err := e.wardrobe.Subscribe(ctx, owner.ID)
	require.NoError(t, err)
	defer sub.Close()
	require.Len(t, recv(t, sub.C), 1)

	res, err := e.redeem.Redeem(ctx, buyer.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Balance)
	assert.False(t, res.Item.Availability)
	assert.Equal(t, domain.RedemptionPrice, res.Redemption.Points)
	assert.Contains(t, e.pub.types(), events.ItemRedeemed)

	// 上传者的衣橱收到下架后的快照
	snap := recv(t, sub.C)
	require.Len(t, snap, 1)
	assert.False(t, snap[0].Availability)

	_, err = e.redeem.Redeem(ctx, buyer.ID, it.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestRedeemInsufficientBalanceChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	buyer := e.user(t, "poor@example.com", 99)
	owner := e.user(t, "owner@example.com", 0)
	it := e.item(t, owner.ID, true)

	_, err := e.redeem.Redeem(ctx, buyer.ID, it.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, "You don't have enough points to redeem this item.", err.Error())

	u, err := e.users.FindByID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, u.Points)
	got, err := e.items.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Availability)
	assert.NotContains(t, e.pub.types(), events.ItemRedeemed)
}

func TestRedeemRejectsOwnAndUnlisted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com", 500)
	other := e.user(t, "other@example.com", 500)

	own := e.item(t, owner.ID, true)
	_, err := e.redeem.Redeem(ctx, owner.ID, own.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pending := e.item(t, owner.ID, false)
	_, err = e.redeem.Redeem(ctx, other.ID, pending.ID)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	_, err = e.redeem.Redeem(ctx, other.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentRedeemSameItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com", 0)
	it := e.item(t, owner.ID, true)

	const n = 5
	buyers := make([]*domain.User, n)
	for i := range buyers {
		buyers[i] = e.user(t, string(rune('a'+i))+"@example.com", 100)
	}

	var ok atomic.Int32
	var wg sync.WaitGroup
	for _, b := range buyers {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			if _, err := e.redeem.Redeem(ctx, uid, it.ID); err == nil {
				ok.Add(1)
			} else {
				assert.ErrorIs(t, err, domain.ErrUnavailable)
			}
		}(b.ID)
	}
	wg.Wait()
	assert.EqualValues(t, 1, ok.Load())

	var total int
	for _, b := range buyers {
		u, err := e.users.FindByID(ctx, b.ID)
		require.NoError(t, err)
		total += u.Points
	}
	assert.Equal(t, n*100-domain.RedemptionPrice, total)
}
