package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/TravelAlbum/internal/domain"
	"github.com/jmoiron/sqlx"
)

// PostgresStorage реализует ports.AlbumStorage поверх sqlx.
type PostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresStorage(db *sqlx.DB, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

// ListLocations возвращает все локации в порядке показа, с количеством фото.
func (s *PostgresStorage) ListLocations(ctx context.Context) ([]domain.LocationWithCount, error) {
	start := time.Now()

	q := `
	SELECT l.id, l.title, l.cover, l.sort_order, l.created_at, COUNT(p.id) AS photo_count
	FROM locations l
	LEFT JOIN photos p ON p.location_id = l.id
	GROUP BY l.id
	ORDER BY l.sort_order ASC, l.id ASC
	`

	locations := []domain.LocationWithCount{}
	if err := s.db.SelectContext(ctx, &locations, q); err != nil {
		s.logger.Error("failed to list locations", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка локаций: %w", err)
	}

	s.logger.Info("locations listed",
		"count", len(locations),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return locations, nil
}

// GetLocation возвращает локацию по id; (nil, nil), если записи нет.
func (s *PostgresStorage) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	var loc domain.Location
	err := s.db.GetContext(ctx, &loc, `SELECT * FROM locations WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("location not found", "id", id)
			return nil, nil
		}
		s.logger.Error("failed to get location", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении локации по ID: %w", err)
	}
	return &loc, nil
}

// CreateLocation вставляет локацию в конец списка: sort_order = max + 1, либо 0.
func (s *PostgresStorage) CreateLocation(ctx context.Context, title, cover string) (int64, error) {
	start := time.Now()

	var id int64
	q := `
	INSERT INTO locations (title, cover, sort_order)
	VALUES ($1, $2, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM locations))
	RETURNING id
	`
	if err := s.db.GetContext(ctx, &id, q, title, cover); err != nil {
		s.logger.Error("failed to create location", "title", title, "error", err)
		return 0, fmt.Errorf("ошибка при создании локации: %w", err)
	}

	s.logger.Info("location created",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return id, nil
}

// UpdateLocation обновляет только переданные поля. Пустой набор — no-op.
func (s *PostgresStorage) UpdateLocation(ctx context.Context, id int64, fields domain.LocationUpdate) error {
	if fields.Empty() {
		return nil
	}

	sets := []string{}
	args := []interface{}{}
	if fields.Title != nil {
		args = append(args, *fields.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if fields.Cover != nil {
		args = append(args, *fields.Cover)
		sets = append(sets, fmt.Sprintf("cover = $%d", len(args)))
	}
	if fields.SortOrder != nil {
		args = append(args, *fields.SortOrder)
		sets = append(sets, fmt.Sprintf("sort_order = $%d", len(args)))
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE locations SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logger.Error("failed to update location", "id", id, "error", err)
		return fmt.Errorf("ошибка при обновлении локации: %w", err)
	}

	s.logger.Info("location updated", "id", id, "fields", len(sets))
	return nil
}

// DeleteLocation удаляет локацию; фото уходят каскадом (FK ON DELETE CASCADE).
func (s *PostgresStorage) DeleteLocation(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		s.logger.Error("failed to delete location", "id", id, "error", err)
		return fmt.Errorf("ошибка при удалении локации: %w", err)
	}
	s.logger.Info("location deleted", "id", id)
	return nil
}

// ListPhotos возвращает фото локации в порядке показа.
func (s *PostgresStorage) ListPhotos(ctx context.Context, locationID int64) ([]domain.Photo, error) {
	start := time.Now()

	q := `SELECT * FROM photos WHERE location_id = $1 ORDER BY sort_order ASC, id ASC`

	photos := []domain.Photo{}
	if err := s.db.SelectContext(ctx, &photos, q, locationID); err != nil {
		s.logger.Error("failed to list photos", "location_id", locationID, "error", err)
		return nil, fmt.Errorf("ошибка при получении фотографий локации: %w", err)
	}

	s.logger.Info("photos listed",
		"location_id", locationID,
		"count", len(photos),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return photos, nil
}

// GetPhoto возвращает фото по id; (nil, nil), если записи нет.
func (s *PostgresStorage) GetPhoto(ctx context.Context, id int64) (*domain.Photo, error) {
	var photo domain.Photo
	err := s.db.GetContext(ctx, &photo, `SELECT * FROM photos WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("photo not found", "id", id)
			return nil, nil
		}
		s.logger.Error("failed to get photo", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении фото по ID: %w", err)
	}
	return &photo, nil
}

// CreatePhoto вставляет фото в конец списка своей локации.
func (s *PostgresStorage) CreatePhoto(ctx context.Context, locationID int64, url, title, description string) (int64, error) {
	var id int64
	q := `
	INSERT INTO photos (location_id, url, title, description, sort_order)
	VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM photos WHERE location_id = $1))
	RETURNING id
	`
	if err := s.db.GetContext(ctx, &id, q, locationID, url, title, description); err != nil {
		s.logger.Error("failed to create photo", "location_id", locationID, "error", err)
		return 0, fmt.Errorf("ошибка при создании фото: %w", err)
	}

	s.logger.Info("photo created", "id", id, "location_id", locationID)
	return id, nil
}

// UpdatePhoto обновляет только переданные поля. Пустой набор — no-op.
func (s *PostgresStorage) UpdatePhoto(ctx context.Context, id int64, fields domain.PhotoUpdate) error {
	if fields.Empty() {
		return nil
	}

	sets := []string{}
	args := []interface{}{}
	if fields.Title != nil {
		args = append(args, *fields.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if fields.Description != nil {
		args = append(args, *fields.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if fields.URL != nil {
		args = append(args, *fields.URL)
		sets = append(sets, fmt.Sprintf("url = $%d", len(args)))
	}
	if fields.SortOrder != nil {
		args = append(args, *fields.SortOrder)
		sets = append(sets, fmt.Sprintf("sort_order = $%d", len(args)))
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE photos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logger.Error("failed to update photo", "id", id, "error", err)
		return fmt.Errorf("ошибка при обновлении фото: %w", err)
	}

	s.logger.Info("photo updated", "id", id, "fields", len(sets))
	return nil
}

// DeletePhoto удаляет фото.
func (s *PostgresStorage) DeletePhoto(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id); err != nil {
		s.logger.Error("failed to delete photo", "id", id, "error", err)
		return fmt.Errorf("ошибка при удалении фото: %w", err)
	}
	s.logger.Info("photo deleted", "id", id)
	return nil
}

// ReorderLocations переписывает sort_order перечисленных локаций на индекс
// в списке. Всё в одной транзакции: либо применяются все записи, либо ни одной.
func (s *PostgresStorage) ReorderLocations(ctx context.Context, orderedIDs []int64) error {
	return s.reorder(ctx, "locations", orderedIDs)
}

// ReorderPhotos — то же для фото.
func (s *PostgresStorage) ReorderPhotos(ctx context.Context, orderedIDs []int64) error {
	return s.reorder(ctx, "photos", orderedIDs)
}

func (s *PostgresStorage) reorder(ctx context.Context, table string, orderedIDs []int64) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	q := fmt.Sprintf("UPDATE %s SET sort_order = $1 WHERE id = $2", table)
	for index, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, q, index, id); err != nil {
			s.logger.Error("failed to reorder, rolling back", "table", table, "id", id, "error", err)
			return fmt.Errorf("ошибка при обновлении сортировки: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка коммита транзакции: %w", err)
	}

	s.logger.Info("reorder applied",
		"table", table,
		"count", len(orderedIDs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// CountLocations возвращает число локаций.
func (s *PostgresStorage) CountLocations(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM locations`); err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте локаций: %w", err)
	}
	return count, nil
}
