package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"rewear/internal/core/auth"
	"rewear/internal/domain"
	"rewear/pkg/utils"
)

const minPasswordLen = 6

type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type AccountService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAccountService(users domain.UserRepository, jwt *auth.JWTer, l *zap.Logger) *AccountService {
	return &AccountService{users: users, jwt: jwt, log: l}
}

// normalizeEmail 格式由接入层校验，这里只统一大小写
func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalid)
	}
	return s, nil
}

// Signup 新用户积分为 0，非管理员
func (s *AccountService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalid, minPasswordLen)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	u := domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		Points:       0,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	s.log.Info("user signed up", zap.String("uid", u.ID))
	return s.issue(u)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	return s.issue(*u)
}

func (s *AccountService) Me(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *AccountService) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, max(0, offset), limit)
}

// Promote 设置管理员标记，下次登录签发的 token 生效
func (s *AccountService) Promote(ctx context.Context, email string, admin bool) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return s.users.SetAdmin(ctx, u.ID, admin)
}

func (s *AccountService) issue(u domain.User) (*AuthResult, error) {
	tok, err := s.jwt.Issue(u.ID, u.Email, u.Role())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: tok, User: u}, nil
}
