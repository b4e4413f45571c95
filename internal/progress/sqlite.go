package progress

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type levelRow struct {
	ChapterID  string `gorm:"column:chapter_id;primaryKey"`
	LevelIndex int    `gorm:"column:level_index;primaryKey;autoIncrement:false"`
	Completed  bool   `gorm:"column:completed"`
	UpdatedAt  time.Time
}

func (levelRow) TableName() string { return "level_progress" }

type chapterRow struct {
	ChapterID       string `gorm:"column:chapter_id;primaryKey"`
	HighestUnlocked int    `gorm:"column:highest_unlocked"`
	UpdatedAt       time.Time
}

func (chapterRow) TableName() string { return "chapter_progress" }

// SQLBackend stores progress in a gorm database.
type SQLBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) a sqlite progress file.
func OpenSQLite(path string) (*SQLBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open progress db: %w", err)
	}
	return NewSQLBackend(db)
}

// NewSQLBackend migrates the progress tables on db.
func NewSQLBackend(db *gorm.DB) (*SQLBackend, error) {
	if err := db.AutoMigrate(&levelRow{}, &chapterRow{}); err != nil {
		return nil, fmt.Errorf("migrate progress tables: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

func (s *SQLBackend) Completed(chapterID string, levelIndex int) (bool, error) {
	var row levelRow
	err := s.db.Where("chapter_id = ? AND level_index = ?", chapterID, levelIndex).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return row.Completed, nil
}

func (s *SQLBackend) SetCompleted(chapterID string, levelIndex int) error {
	row := levelRow{ChapterID: chapterID, LevelIndex: levelIndex, Completed: true}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chapter_id"}, {Name: "level_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLBackend) HighestUnlocked(chapterID string) (int, error) {
	var row chapterRow
	err := s.db.Where("chapter_id = ?", chapterID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.HighestUnlocked, nil
}

func (s *SQLBackend) SetHighestUnlocked(chapterID string, index int) error {
	row := chapterRow{ChapterID: chapterID, HighestUnlocked: index}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"highest_unlocked", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLBackend) DeleteChapter(chapterID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapterID).Delete(&levelRow{}).Error; err != nil {
			return err
		}
		return tx.Where("chapter_id = ?", chapterID).Delete(&chapterRow{}).Error
	})
}

func (s *SQLBackend) DeleteAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&levelRow{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&chapterRow{}).Error
	})
}

// Close releases the underlying connection pool.
func (s *SQLBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
