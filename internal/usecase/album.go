package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/GoArmGo/TravelAlbum/internal/domain"
)

// Ошибки уровня бизнес-логики; обработчики переводят их в HTTP-статусы.
var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotFound      = errors.New("admin account not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// ImageUpload описывает один загружаемый файл изображения.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// CreatedPhoto — результат загрузки одного фото.
type CreatedPhoto struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// PublicPhoto — фото в формате публичного API. Пустые title/desc
// не сериализуются вовсе: формат совместим со старым плоским locations.json.
type PublicPhoto struct {
	Src   string `json:"src"`
	Title string `json:"title,omitempty"`
	Desc  string `json:"desc,omitempty"`
}

// PublicLocation — локация в формате публичного API.
type PublicLocation struct {
	Src     string        `json:"src"`
	Title   string        `json:"title"`
	Details []PublicPhoto `json:"details"`
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO).
// порт для хранения бинарных данных (самих изображений)
type FileStorage interface {
	// ObjectKey строит уникальный ключ объекта для данного вида (обложка/фото).
	ObjectKey(kind, originalName string) string

	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFileByURL удаляет объект по его публичному URL.
	DeleteFileByURL(ctx context.Context, fileURL string) error
}

// AlbumUseCase определяет бизнес-логику работы с локациями и фото:
// CRUD, сортировка и связка строк бд с объектами в удаленном хранилище.
type AlbumUseCase interface {
	ListLocations(ctx context.Context) ([]domain.LocationWithCount, error)

	// CreateLocation загружает обложку (если есть) и создает локацию.
	// При ошибке загрузки строка не создается.
	CreateLocation(ctx context.Context, title string, cover *ImageUpload) (int64, error)

	// UpdateLocation меняет заголовок и/или обложку; старая обложка
	// удаляется из хранилища по принципу best-effort.
	UpdateLocation(ctx context.Context, id int64, title *string, cover *ImageUpload) error

	// DeleteLocation удаляет локацию с каскадом фото и best-effort
	// зачисткой всех связанных объектов в хранилище.
	DeleteLocation(ctx context.Context, id int64) error

	ListPhotos(ctx context.Context, locationID int64) ([]domain.Photo, error)

	// AddPhotos загружает файлы и создает по одной записи на файл,
	// сохраняя порядок загрузки.
	AddPhotos(ctx context.Context, locationID int64, uploads []ImageUpload) ([]CreatedPhoto, error)

	UpdatePhoto(ctx context.Context, id int64, title, desc *string) error
	DeletePhoto(ctx context.Context, id int64) error

	ReorderLocations(ctx context.Context, orderedIDs []int64) error
	ReorderPhotos(ctx context.Context, orderedIDs []int64) error

	// PublicLocations возвращает все локации в формате публичного API.
	PublicLocations(ctx context.Context) ([]PublicLocation, error)

	// PublicLocation возвращает локацию по её индексу в порядке показа.
	PublicLocation(ctx context.Context, index int) (*PublicLocation, error)
}

// AuthUseCase определяет бизнес-логику аутентификации администратора.
type AuthUseCase interface {
	// Login проверяет пару логин/пароль и выпускает токен. Неизвестный логин
	// и неверный пароль неразличимы для вызывающего.
	Login(ctx context.Context, username, password string) (string, error)

	// ChangePassword меняет пароль при верном старом пароле.
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error

	// VerifyToken проверяет подпись и срок действия токена.
	VerifyToken(token string) error
}
