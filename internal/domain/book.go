package domain

// Ограничения длины полей книги (в символах).
const (
	MaxTitleLen       = 200
	MaxAuthorLen      = 100
	MaxDescriptionLen = 1000
)

// Book представляет книгу каталога.
type Book struct {
	ID          int64  `json:"id" db:"id" gorm:"primaryKey"`
	Title       string `json:"title" db:"title"`
	Author      string `json:"author" db:"author"`
	Description string `json:"description" db:"description"`
}

// TableName задаёт имя таблицы для GORM.
func (Book) TableName() string {
	return "books"
}
