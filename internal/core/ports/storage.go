package ports

import (
	"context"

	"github.com/GoArmGo/TravelAlbum/internal/domain"
)

// AlbumStorage определяет методы для взаимодействия с хранилищем локаций и фото.
type AlbumStorage interface {
	// ListLocations возвращает все локации в порядке показа (sort_order, id),
	// каждая строка дополнена количеством фото.
	ListLocations(ctx context.Context) ([]domain.LocationWithCount, error)

	// GetLocation возвращает локацию по id либо (nil, nil), если её нет.
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)

	// CreateLocation добавляет локацию в конец списка (sort_order = max + 1).
	CreateLocation(ctx context.Context, title, cover string) (int64, error)

	// UpdateLocation обновляет только заданные поля; пустой набор полей — no-op.
	UpdateLocation(ctx context.Context, id int64, fields domain.LocationUpdate) error

	// DeleteLocation удаляет локацию; фото удаляются каскадом на уровне бд.
	DeleteLocation(ctx context.Context, id int64) error

	// ListPhotos возвращает фото локации в порядке показа.
	ListPhotos(ctx context.Context, locationID int64) ([]domain.Photo, error)

	// GetPhoto возвращает фото по id либо (nil, nil), если его нет.
	GetPhoto(ctx context.Context, id int64) (*domain.Photo, error)

	// CreatePhoto добавляет фото в конец списка своей локации.
	CreatePhoto(ctx context.Context, locationID int64, url, title, description string) (int64, error)

	// UpdatePhoto обновляет только заданные поля; пустой набор полей — no-op.
	UpdatePhoto(ctx context.Context, id int64, fields domain.PhotoUpdate) error

	// DeletePhoto удаляет фото.
	DeletePhoto(ctx context.Context, id int64) error

	// ReorderLocations атомарно переписывает sort_order каждой перечисленной
	// локации на её индекс в списке. Идентификаторы вне списка сохраняют старый
	// sort_order (частичное обновление без полной пересинхронизации).
	ReorderLocations(ctx context.Context, orderedIDs []int64) error

	// ReorderPhotos — то же для фото.
	ReorderPhotos(ctx context.Context, orderedIDs []int64) error

	// CountLocations возвращает число локаций.
	CountLocations(ctx context.Context) (int, error)
}

// AdminStorage определяет методы для взаимодействия с хранилищем администраторов.
type AdminStorage interface {
	// GetByUsername возвращает администратора либо (nil, nil), если его нет.
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, username, passwordHash string) (int64, error)

	// UpdatePassword заменяет хэш пароля. В отличие от GetByUsername,
	// неизвестное имя здесь ошибка: записывать пароль некому.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
