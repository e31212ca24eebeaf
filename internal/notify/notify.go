// Package notify 给物品主人发交换请求邮件，尽力而为，失败只记日志。
package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rewear/internal/domain"
)

type Mailer interface {
	SwapRequested(ctx context.Context, owner, requester domain.User, item domain.Item) error
}

type Nop struct{}

func (Nop) SwapRequested(context.Context, domain.User, domain.User, domain.Item) error { return nil }

type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *SendGrid) SwapRequested(ctx context.Context, owner, requester domain.User, item domain.Item) error {
	subject, plain, rich := swapRequestMessage(requester.Email, item.Name)
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", owner.Email), plain, rich)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func swapRequestMessage(requesterEmail, itemName string) (subject, plain, rich string) {
	subject = fmt.Sprintf("New swap request for %s", itemName)
	plain = fmt.Sprintf("%s would like to swap for your item \"%s\". Open ReWear to respond.", requesterEmail, itemName)
	rich = fmt.Sprintf("<p><strong>%s</strong> would like to swap for your item <em>%s</em>.</p><p>Open ReWear to respond.</p>",
		html.EscapeString(requesterEmail), html.EscapeString(itemName))
	return subject, plain, rich
}
