package catalog

import (
	"context"
	"fmt"
	"time"

	"diffing-research/core/database"

	"gorm.io/gorm"
)

// MoviesTable is the table holding stored category pages.
const MoviesTable = "catalog_movies"

// MoviesColumns are the columns the page cache relies on.
var MoviesColumns = []string{"id", "category", "position", "title", "overview", "poster_path", "release_date"}

// movieRow is one stored movie of one category page.
type movieRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Category    string `gorm:"primaryKey;size:32"`
	Position    int
	Title       string `gorm:"size:255"`
	Overview    string `gorm:"type:text"`
	PosterPath  string `gorm:"size:255"`
	ReleaseDate string `gorm:"size:16"`
	UpdatedAt   time.Time
}

func (movieRow) TableName() string {
	return MoviesTable
}

// Repository stores the last good page of every category.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog_movies table.
func (r *Repository) Migrate() error {
	return database.EnsureSchema(r.db, MoviesTable, MoviesColumns, &movieRow{})
}

// SavePage replaces the stored page of category with movies.
func (r *Repository) SavePage(ctx context.Context, category string, movies []Movie) error {
	rows := make([]movieRow, len(movies))
	for i, m := range movies {
		rows[i] = movieRow{
			ID:          m.ID,
			Category:    category,
			Position:    i,
			Title:       m.Title,
			Overview:    m.Overview,
			PosterPath:  m.PosterPath,
			ReleaseDate: m.ReleaseDate,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category = ?", category).Delete(&movieRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("save page %s: %w", category, err)
	}
	return nil
}

// LoadPage returns the stored page of category in its original order.
func (r *Repository) LoadPage(ctx context.Context, category string) ([]Movie, error) {
	var rows []movieRow
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", category, err)
	}

	movies := make([]Movie, len(rows))
	for i, row := range rows {
		movies[i] = Movie{
			ID:          row.ID,
			Title:       row.Title,
			Overview:    row.Overview,
			PosterPath:  row.PosterPath,
			ReleaseDate: row.ReleaseDate,
		}
	}
	return movies, nil
}
