package domain

import "time"

// Photo представляет фотографию внутри локации,
// соответствует таблице photos в бд
type Photo struct {
	ID          int64     `json:"id" db:"id"`
	LocationID  int64     `json:"location_id" db:"location_id"`
	URL         string    `json:"url" db:"url"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"desc" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}

// PhotoUpdate описывает частичное обновление фото.
// nil-поле означает "не трогать".
type PhotoUpdate struct {
	Title       *string
	Description *string
	URL         *string
	SortOrder   *int
}

// Empty сообщает, задано ли хотя бы одно поле.
func (u PhotoUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.URL == nil && u.SortOrder == nil
}
