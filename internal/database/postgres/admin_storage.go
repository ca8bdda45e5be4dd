package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/TravelAlbum/internal/domain"
	"gorm.io/gorm"
)

// GormAdminStorage реализует интерфейс ports.AdminStorage с использованием GORM
type GormAdminStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormAdminStorage создает новый экземпляр GormAdminStorage
func NewGormAdminStorage(db *gorm.DB, logger *slog.Logger) *GormAdminStorage {
	return &GormAdminStorage{db: db, logger: logger}
}

// GetByUsername возвращает администратора по имени; (nil, nil), если записи нет.
func (s *GormAdminStorage) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var admin domain.Admin
	result := s.db.WithContext(ctx).Where("username = ?", username).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to select admin", "username", username, "error", result.Error)
		return nil, fmt.Errorf("ошибка при поиске администратора: %w", result.Error)
	}
	return &admin, nil
}

// Count возвращает число администраторов.
func (s *GormAdminStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&domain.Admin{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("ошибка при подсчёте администраторов: %w", result.Error)
	}
	return count, nil
}

// Create добавляет администратора.
func (s *GormAdminStorage) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	start := time.Now()

	admin := domain.Admin{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	result := s.db.WithContext(ctx).Create(&admin)
	if result.Error != nil {
		s.logger.Error("failed to insert admin", "username", username, "error", result.Error)
		return 0, fmt.Errorf("ошибка при создании администратора: %w", result.Error)
	}

	s.logger.Info("admin created",
		"admin_id", admin.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return admin.ID, nil
}

// UpdatePassword заменяет хэш пароля администратора.
func (s *GormAdminStorage) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	result := s.db.WithContext(ctx).
		Model(&domain.Admin{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		s.logger.Error("failed to update admin password", "username", username, "error", result.Error)
		return fmt.Errorf("ошибка при обновлении пароля: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("администратор %q не найден", username)
	}

	s.logger.Info("admin password updated", "username", username)
	return nil
}
