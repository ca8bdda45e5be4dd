package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TravelAlbum/internal/auth"
	"github.com/GoArmGo/TravelAlbum/internal/core/ports"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	adminStorage ports.AdminStorage
	tokens       *auth.TokenManager
	logger       *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(adminStorage ports.AdminStorage, tokens *auth.TokenManager, logger *slog.Logger) AuthUseCase {
	return &authUseCase{
		adminStorage: adminStorage,
		tokens:       tokens,
		logger:       logger,
	}
}

// Login проверяет учетные данные и выпускает токен. Неизвестный логин и
// неверный пароль дают один и тот же ErrInvalidCredentials.
func (uc *authUseCase) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := uc.adminStorage.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка поиска администратора: %w", err)
	}
	if admin == nil || !auth.CheckPasswordHash(password, admin.PasswordHash) {
		uc.logger.Warn("login failed", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue()
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка выпуска токена: %w", err)
	}

	uc.logger.Info("login successful", "username", username)
	return token, nil
}

// ChangePassword меняет пароль при верном старом. Валидация длины нового
// пароля лежит на обработчике.
func (uc *authUseCase) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	admin, err := uc.adminStorage.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("usecase: ошибка поиска администратора: %w", err)
	}
	if admin == nil {
		return ErrAdminNotFound
	}

	if !auth.CheckPasswordHash(oldPassword, admin.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("usecase: ошибка хэширования пароля: %w", err)
	}

	if err := uc.adminStorage.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("usecase: ошибка обновления пароля: %w", err)
	}

	uc.logger.Info("admin password changed", "username", username)
	return nil
}

// VerifyToken проверяет подпись и срок действия токена.
func (uc *authUseCase) VerifyToken(token string) error {
	return uc.tokens.Verify(token)
}
