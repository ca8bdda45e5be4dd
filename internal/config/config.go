package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	AdminPort   string `env:"ADMIN_PORT" envDefault:"9999"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Настройки для MinIO / S3
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`

	// Базовый каталог внутри бакета для всех объектов альбома.
	UploadBaseDir string `env:"UPLOAD_BASE_DIR" envDefault:"travel-album"`

	// Лимиты загрузки: размер одного файла и число фото за один запрос.
	MaxUploadBytes   int64 `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`
	MaxPhotosPerCall int   `env:"MAX_PHOTOS_PER_CALL" envDefault:"50"`

	// Аутентификация администратора
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"travel_album_default_secret"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	// Путь к locations.json старого формата; импортируется при первом запуске.
	LegacyDataPath string `env:"LEGACY_DATA_PATH" envDefault:"data/locations.json"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	return &cfg, nil
}
