package events

import (
	"context"
	"time"
)

// 事件类型，NATS subject = <prefix>.<type>
const (
	ItemListed    = "item.listed"
	ItemApproved  = "item.approved"
	ItemRejected  = "item.rejected"
	ItemRedeemed  = "item.redeemed"
	SwapRequested = "swap.requested"
)

type Event struct {
	Type   string    `json:"type"`
	ItemID string    `json:"itemId,omitempty"`
	UserID string    `json:"userId,omitempty"`
	SwapID string    `json:"swapId,omitempty"`
	Points int       `json:"points,omitempty"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop 未配置 NATS 时使用
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
