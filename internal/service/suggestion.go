package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rewear/internal/domain"
	"rewear/internal/suggest"
)

var occasions = []string{
	"Casual Day Out",
	"Work Meeting",
	"Date Night",
	"Weekend Brunch",
	"Formal Event",
	"Workout Session",
	"Beach Vacation",
	"Cozy Night In",
}

type SuggestionService struct {
	items domain.ItemRepository
	gen   suggest.Generator // nil 表示未配置
	log   *zap.Logger
}

func NewSuggestionService(items domain.ItemRepository, gen suggest.Generator, l *zap.Logger) *SuggestionService {
	return &SuggestionService{items: items, gen: gen, log: l}
}

func (s *SuggestionService) Occasions() []string {
	return append([]string(nil), occasions...)
}

func (s *SuggestionService) Suggest(ctx context.Context, uid, occasion string) (*suggest.Outfit, error) {
	occasion = strings.TrimSpace(occasion)
	if occasion == "" {
		return nil, fmt.Errorf("%w: occasion is required", domain.ErrInvalid)
	}
	if s.gen == nil {
		return nil, fmt.Errorf("%w: outfit suggestions are not configured", domain.ErrTransient)
	}
	items, err := s.items.ListByUploader(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: wardrobe is empty", domain.ErrInvalid)
	}
	out, err := s.gen.SuggestOutfit(ctx, WardrobeLines(items), occasion)
	if err != nil {
		s.log.Warn("outfit suggestion failed", zap.String("uid", uid), zap.Error(err))
		return nil, domain.Store("suggest", err)
	}
	return out, nil
}

// WardrobeLines 每件一行："名称: 描述 (Style: x, Color: y)"
func WardrobeLines(items []domain.Item) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s: %s (Style: %s, Color: %s)\n", it.Name, it.Description, it.Style, it.DominantColor)
	}
	return strings.TrimRight(b.String(), "\n")
}
