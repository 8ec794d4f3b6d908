package scoreboard

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// scoreRow is the table layout of a finished game.
type scoreRow struct {
	ID         uint   `gorm:"primaryKey"`
	Username   string `gorm:"size:64;index"`
	Score      int    `gorm:"index"`
	SurvivalMS int64  `gorm:"column:survival_ms"`
	Lives      int
	FinishedAt time.Time `gorm:"column:finished_at;index"`
}

func (scoreRow) TableName() string { return "scores" }

// SQLiteStore keeps entries in a SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path and migrates the schema.
// An empty path opens a shared in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open scoreboard %q: %w", dsn, err)
	}
	if err := db.AutoMigrate(&scoreRow{}); err != nil {
		return nil, fmt.Errorf("migrate scoreboard: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	row := scoreRow{
		Username:   e.Username,
		Score:      e.Score,
		SurvivalMS: e.Survival.Milliseconds(),
		Lives:      e.Lives,
		FinishedAt: e.FinishedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Entry, error) {
	var rows []scoreRow
	err := s.db.WithContext(ctx).
		Order("score DESC").
		Order("survival_ms DESC").
		Order("finished_at ASC").
		Order("id ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}

	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{
			Username:   r.Username,
			Score:      r.Score,
			Survival:   time.Duration(r.SurvivalMS) * time.Millisecond,
			Lives:      r.Lives,
			FinishedAt: r.FinishedAt,
		}
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close scoreboard: %w", err)
	}
	return sqlDB.Close()
}
