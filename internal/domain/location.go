package domain

import "time"

// Location представляет альбом-локацию,
// соответствует таблице locations в бд
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Cover     string    `json:"cover" db:"cover"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Location) TableName() string {
	return "locations"
}

// LocationWithCount — строка списка локаций для админки: локация плюс число фото.
type LocationWithCount struct {
	Location
	PhotoCount int `json:"photo_count" db:"photo_count"`
}

// LocationUpdate описывает частичное обновление локации.
// nil-поле означает "не трогать".
type LocationUpdate struct {
	Title     *string
	Cover     *string
	SortOrder *int
}

// Empty сообщает, задано ли хотя бы одно поле.
func (u LocationUpdate) Empty() bool {
	return u.Title == nil && u.Cover == nil && u.SortOrder == nil
}
