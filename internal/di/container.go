package di

import (
	"context"
	"fmt"

	"github.com/GoArmGo/TravelAlbum/internal/adapter/storage/minio"
	"github.com/GoArmGo/TravelAlbum/internal/app"
	"github.com/GoArmGo/TravelAlbum/internal/auth"
	"github.com/GoArmGo/TravelAlbum/internal/config"
	"github.com/GoArmGo/TravelAlbum/internal/database/client"
	"github.com/GoArmGo/TravelAlbum/internal/database/postgres"
	"github.com/GoArmGo/TravelAlbum/internal/database/storage"
	"github.com/GoArmGo/TravelAlbum/internal/importer"
	"github.com/GoArmGo/TravelAlbum/internal/logger"
	"github.com/GoArmGo/TravelAlbum/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogCfg := logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}
	slogger := logger.NewSlog(slogCfg)

	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	albumStorage := storage.NewPostgresStorage(dbClient.DB, slogger)
	adminStorage := postgres.NewGormAdminStorage(dbClient.Gorm, slogger)

	// 4. Инициализация объектного хранилища (S3 / MinIO адаптер)
	fileStorage, err := minio.NewMinioClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. Инициализация бизнес-логики (usecases)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	albumUseCase := usecase.NewAlbumUseCase(albumStorage, fileStorage, slogger)
	authUseCase := usecase.NewAuthUseCase(adminStorage, tokens, slogger)

	// 6. Стартовые данные: администратор и разовый импорт legacy-файла
	if err := importer.Run(ctx, cfg, albumStorage, adminStorage, slogger); err != nil {
		return nil, fmt.Errorf("ошибка начальной инициализации данных: %w", err)
	}

	// 7. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient.DB,
		albumUseCase,
		authUseCase,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
