// Package services содержит аутентификацию администратора панели.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	jwtlib "github.com/magabrotheeeer/iptv-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/password"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

// ErrInvalidCredentials неверная пара логин/пароль. Наружу не уходит
// информация о том, существует ли пользователь.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminRepository определяет методы хранилища администраторов.
type AdminRepository interface {
	// FindAdminByUsername возвращает администратора по имени.
	FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	// CreateAdmin вставляет администратора.
	CreateAdmin(ctx context.Context, admin models.Admin) error
}

// AuthService проверяет учётные данные и выдаёт JWT.
type AuthService struct {
	repo  AdminRepository
	maker jwtlib.Maker
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo AdminRepository, maker jwtlib.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Login проверяет пароль администратора и возвращает подписанный токен.
func (s *AuthService) Login(ctx context.Context, username, pass string) (string, error) {
	admin, err := s.repo.FindAdminByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !password.CompareHash(admin.PasswordHash, pass) {
		return "", ErrInvalidCredentials
	}

	token, err := s.maker.GenerateToken(admin.Username)
	if err != nil {
		return "", err
	}

	s.log.Info("admin logged in", slog.String("username", admin.Username))
	return token, nil
}

// EnsureAdmin создаёт учётную запись администратора, если её ещё нет.
// Вызывается при старте панели с учётными данными из конфигурации,
// чтобы на чистой базе был хотя бы один администратор.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, pass string) error {
	_, err := s.repo.FindAdminByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		return err
	}
	if err := s.repo.CreateAdmin(ctx, models.Admin{
		UID:          uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
	}); err != nil {
		return err
	}

	s.log.Info("created initial admin", slog.String("username", username))
	return nil
}
