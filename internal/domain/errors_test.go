package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreErrorIsTransient(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("redeem: %w", Store("load user", base))

	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "redeem: load user: connection reset", err.Error())
	assert.Nil(t, Store("noop", nil))
}

func TestItemListed(t *testing.T) {
	assert.True(t, Item{Approved: true, Availability: true}.Listed())
	assert.False(t, Item{Approved: false, Availability: true}.Listed())
	assert.False(t, Item{Approved: true, Availability: false}.Listed())
}

func TestUserRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, User{Admin: true}.Role())
	assert.Equal(t, RoleUser, User{}.Role())
}
