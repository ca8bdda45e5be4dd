package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/GoArmGo/TravelAlbum/internal/auth"
	"github.com/GoArmGo/TravelAlbum/internal/config"
	"github.com/GoArmGo/TravelAlbum/internal/core/ports"
)

// legacyLocation описывает формат статического locations.json,
// из которого галерея жила до появления базы.
type legacyLocation struct {
	Title   string        `json:"title"`
	Src     string        `json:"src"`
	Details []legacyPhoto `json:"details"`
}

type legacyPhoto struct {
	Src   string `json:"src"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Run выполняет стартовую инициализацию данных: создаёт администратора,
// если таблица пуста, и разово импортирует legacy-файл с локациями.
func Run(
	ctx context.Context,
	cfg *config.Config,
	albumStorage ports.AlbumStorage,
	adminStorage ports.AdminStorage,
	logger *slog.Logger,
) error {
	if err := ensureAdmin(ctx, cfg, adminStorage, logger); err != nil {
		return err
	}
	return importLegacy(ctx, cfg, albumStorage, logger)
}

func ensureAdmin(ctx context.Context, cfg *config.Config, adminStorage ports.AdminStorage, logger *slog.Logger) error {
	count, err := adminStorage.Count(ctx)
	if err != nil {
		return fmt.Errorf("importer: ошибка подсчёта администраторов: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("importer: ошибка хеширования пароля: %w", err)
	}

	if _, err := adminStorage.Create(ctx, cfg.AdminUsername, hash); err != nil {
		return fmt.Errorf("importer: ошибка создания администратора: %w", err)
	}

	logger.Info("bootstrap admin created", "username", cfg.AdminUsername)
	return nil
}

// importLegacy наполняет пустую базу из файла cfg.LegacyDataPath.
// Последовательные вставки в пустые таблицы воспроизводят порядок файла
// как sort_order 0..n-1.
func importLegacy(ctx context.Context, cfg *config.Config, albumStorage ports.AlbumStorage, logger *slog.Logger) error {
	count, err := albumStorage.CountLocations(ctx)
	if err != nil {
		return fmt.Errorf("importer: ошибка подсчёта локаций: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(cfg.LegacyDataPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("legacy data file not found, skipping import", "path", cfg.LegacyDataPath)
			return nil
		}
		return fmt.Errorf("importer: ошибка чтения файла %s: %w", cfg.LegacyDataPath, err)
	}

	var locations []legacyLocation
	if err := json.Unmarshal(raw, &locations); err != nil {
		return fmt.Errorf("importer: ошибка разбора файла %s: %w", cfg.LegacyDataPath, err)
	}

	photos := 0
	for _, loc := range locations {
		locationID, err := albumStorage.CreateLocation(ctx, loc.Title, loc.Src)
		if err != nil {
			return fmt.Errorf("importer: ошибка импорта локации %q: %w", loc.Title, err)
		}
		for _, p := range loc.Details {
			if _, err := albumStorage.CreatePhoto(ctx, locationID, p.Src, p.Title, p.Desc); err != nil {
				return fmt.Errorf("importer: ошибка импорта фото локации %q: %w", loc.Title, err)
			}
			photos++
		}
	}

	logger.Info("legacy data imported", "locations", len(locations), "photos", photos)
	return nil
}
