package repository

import (
	"context"
	"errors"

	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresBookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &PostgresBookRepository{db: db}
}

// filterColumns whitelists the fields a listing query may filter on.
var filterColumns = map[string]bool{
	"author":    true,
	"status":    true,
	"listed_by": true,
	"title":     true,
}

// sortColumns whitelists the listing query sort orders.
var sortColumns = map[string]string{
	"newest":     "created_at DESC",
	"oldest":     "created_at ASC",
	"price_asc":  "price ASC",
	"price_desc": "price DESC",
}

func (r *PostgresBookRepository) Create(ctx context.Context, b *domain.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *PostgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, books_errors.ErrNotFound
		}
		return domain.Book{}, err
	}
	return b, nil
}

func (r *PostgresBookRepository) Update(ctx context.Context, b domain.Book) error {
	res := r.db.WithContext(ctx).Save(&b)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return books_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Book{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return books_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresBookRepository) Query(ctx context.Context, q ListingQuery) ([]domain.Book, error) {
	db := r.db.WithContext(ctx).Model(&domain.Book{})

	for col, value := range q.Filters {
		if !filterColumns[col] {
			continue
		}
		if col == "title" {
			db = db.Where("title ILIKE ?", "%"+value+"%")
			continue
		}
		db = db.Where(col+" = ?", value)
	}

	order, ok := sortColumns[q.Sort]
	if !ok {
		order = sortColumns["newest"]
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	var books []domain.Book
	err := db.Order(order).
		Offset((page - 1) * size).
		Limit(size).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}
