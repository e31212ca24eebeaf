package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rewear/internal/core/auth"
	"rewear/internal/core/database"
	"rewear/internal/core/events"
	"rewear/internal/domain"
	"rewear/internal/feed"
	"rewear/internal/repo"
	"rewear/internal/storage"
	"rewear/pkg/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type sentMail struct {
	owner, requester, item string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SwapRequested(_ context.Context, owner, requester domain.User, it domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{owner.Email, requester.Email, it.ID})
	return m.err
}

type env struct {
	db     *gorm.DB
	users  *repo.UserRepo
	items  *repo.ItemRepo
	swaps  *repo.SwapRepo
	hub    *feed.Hub
	pub    *recordingPublisher
	mailer *fakeMailer
	blobs  *storage.Bucket

	accounts   *AccountService
	wardrobe   *WardrobeService
	catalog    *CatalogService
	listings   *ListingService
	swapSvc    *SwapService
	redeem     *RedemptionService
	moderation *ModerationService
	dashboard  *DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := database.NewTestDB(t)
	blobs, err := storage.NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })

	l := zap.NewNop()
	e := &env{
		db:     db,
		users:  repo.NewUserRepo(db),
		items:  repo.NewItemRepo(db),
		swaps:  repo.NewSwapRepo(db),
		hub:    feed.NewHub(),
		pub:    &recordingPublisher{},
		mailer: &fakeMailer{},
		blobs:  blobs,
	}
	jwt := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "rewear", TTL: time.Hour}
	e.accounts = NewAccountService(e.users, jwt, l)
	e.wardrobe = NewWardrobeService(e.items, e.hub, l)
	e.catalog = NewCatalogService(e.items, e.users, nil, time.Minute, l)
	e.listings = NewListingService(e.items, blobs, e.catalog, e.hub, e.pub, l)
	e.swapSvc = NewSwapService(e.swaps, e.items, e.users, e.mailer, e.pub, l)
	t.Cleanup(e.swapSvc.Drain)
	e.redeem = NewRedemptionService(repo.NewRedemptionRepo(db), e.catalog, e.hub, e.pub, l)
	e.moderation = NewModerationService(e.items, e.catalog, e.hub, e.pub, l)
	e.dashboard = NewDashboardService(e.users, e.items, e.swaps)
	return e
}

func (e *env) user(t *testing.T, email string, points int) *domain.User {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Email: email, PasswordHash: "x", Points: points}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *env) item(t *testing.T, uploader string, approved bool) *domain.Item {
	t.Helper()
	it := &domain.Item{
		ID:           utils.NewID(),
		Name:         "Denim jacket",
		Description:  "Light wash",
		Style:        "casual",
		Uploader:     uploader,
		Approved:     approved,
		Availability: true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, e.items.Create(context.Background(), it))
	return it
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
