package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dgallion1/docanchor/internal/anchor"
	"github.com/dgallion1/docanchor/internal/highlight"
)

// highlightRow is the table layout. The serialized range is kept as JSON so
// paths of any depth fit in one column.
type highlightRow struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	BookID       string         `gorm:"index:idx_highlights_book_chapter,priority:1;not null"`
	ChapterIdx   int            `gorm:"index:idx_highlights_book_chapter,priority:2;not null"`
	ChapterHref  string
	ChapterTitle string
	Page         int
	Content      string         `gorm:"not null"`
	Range        datatypes.JSON `gorm:"not null"`
	Color        string         `gorm:"not null"`
	Kind         string         `gorm:"not null"`
	Note         *string
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (highlightRow) TableName() string { return "highlights" }

// Postgres stores highlights through gorm.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres opens dsn, sizes the pool and migrates the highlights table.
func NewPostgres(dsn string, log *slog.Logger) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.NewSlogLogger(log, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&highlightRow{}); err != nil {
		return nil, fmt.Errorf("migrate highlights: %w", err)
	}
	return &Postgres{db: db}, nil
}

func toRow(h *highlight.Highlight) (*highlightRow, error) {
	rng, err := json.Marshal(h.Range)
	if err != nil {
		return nil, fmt.Errorf("marshal range: %w", err)
	}
	return &highlightRow{
		ID:           h.ID,
		BookID:       h.BookID,
		ChapterIdx:   h.Chapter.Idx,
		ChapterHref:  h.Chapter.Href,
		ChapterTitle: h.Chapter.Title,
		Page:         h.Page,
		Content:      h.Content,
		Range:        datatypes.JSON(rng),
		Color:        string(h.Color),
		Kind:         string(h.Kind),
		Note:         h.Note,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}, nil
}

func (r *highlightRow) toHighlight() (*highlight.Highlight, error) {
	var rng anchor.SerializedRange
	if err := json.Unmarshal(r.Range, &rng); err != nil {
		return nil, fmt.Errorf("decode range of %s: %w", r.ID, err)
	}
	return &highlight.Highlight{
		ID:        r.ID,
		BookID:    r.BookID,
		Content:   r.Content,
		Range:     rng,
		Color:     highlight.Color(r.Color),
		Kind:      highlight.Kind(r.Kind),
		Note:      r.Note,
		Chapter:   highlight.Chapter{Idx: r.ChapterIdx, Href: r.ChapterHref, Title: r.ChapterTitle},
		Page:      r.Page,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (p *Postgres) Put(ctx context.Context, h *highlight.Highlight) error {
	if err := highlight.Validate(h); err != nil {
		return err
	}
	row, err := toRow(h)
	if err != nil {
		return err
	}
	if err := p.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("put highlight %s: %w", h.ID, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*highlight.Highlight, error) {
	var row highlightRow
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get highlight %s: %w", id, err)
	}
	return row.toHighlight()
}

func (p *Postgres) ListByBook(ctx context.Context, bookID string, chapter *int) ([]highlight.Highlight, error) {
	q := p.db.WithContext(ctx).Where("book_id = ?", bookID)
	if chapter != nil {
		q = q.Where("chapter_idx = ?", *chapter)
	}
	var rows []highlightRow
	if err := q.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list book %s: %w", bookID, err)
	}
	out := make([]highlight.Highlight, 0, len(rows))
	for i := range rows {
		h, err := rows[i].toHighlight()
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, nil
}

func (p *Postgres) UpdateNote(ctx context.Context, id string, note *string) (*highlight.Highlight, error) {
	res := p.db.WithContext(ctx).Model(&highlightRow{}).Where("id = ?", id).
		Updates(map[string]any{"note": note, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("update note %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return p.Get(ctx, id)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&highlightRow{})
	if res.Error != nil {
		return fmt.Errorf("delete highlight %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteByText(ctx context.Context, bookID, text string) (int, error) {
	res := p.db.WithContext(ctx).Where("book_id = ? AND content = ?", bookID, text).Delete(&highlightRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete by text: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
