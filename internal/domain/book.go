package domain

import (
	"time"

	"github.com/google/uuid"
)

// Book represents the books table. Listing CRUD lives in the request layer;
// the real-time core only needs enough of the entity to resolve a listing's
// owner and to serve the cached listing queries.
type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Price     int64     `json:"price"`
	Status    string    `gorm:"default:available" json:"status"`
	ListedBy  uuid.UUID `gorm:"type:uuid;index" json:"listed_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
