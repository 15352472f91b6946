package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==========================================
// ЖУРНАЛ ПУБЛИКАЦИЙ (SQLite)
// ==========================================

// PublishedPoll — запись об опубликованном опросе. Только добавляется,
// никогда не правится и не удаляется.
type PublishedPoll struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	Username  string
	FirstName string
	LastName  string
	Title     string `gorm:"type:text"`
	MessageID int
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ModEntry — аудит решений модерации.
type ModEntry struct {
	ID        uint   `gorm:"primaryKey"`
	Instance  string `gorm:"index"` // какой запуск процесса писал запись
	UserID    int64  `gorm:"index"`
	Action    string
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type statEntry struct {
	Name  string
	Count int
}

type dayCount struct {
	Day   string
	Count int
}

type LogStore struct {
	DB *gorm.DB
}

func NewLogStore(path string) (*LogStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&PublishedPoll{}, &ModEntry{}); err != nil {
		return nil, err
	}
	return &LogStore{DB: db}, nil
}

func (s *LogStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *LogStore) AddLog(userID int64, username, firstName, lastName, title string, messageID int) error {
	entry := PublishedPoll{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Title:     title,
		MessageID: messageID,
	}
	return s.DB.Create(&entry).Error
}

// StatLog возвращает число публикаций по авторам, по убыванию.
func (s *LogStore) StatLog() ([]statEntry, error) {
	var rows []statEntry
	err := s.DB.Model(&PublishedPoll{}).
		Select("trim(first_name || ' ' || last_name) as name, count(*) as count").
		Group("user_id").
		Order("count desc").
		Scan(&rows).Error
	return rows, err
}

// ActivityByDay возвращает число публикаций по дням за последние days дней.
func (s *LogStore) ActivityByDay(days int) ([]dayCount, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var rows []dayCount
	err := s.DB.Model(&PublishedPoll{}).
		Select("date(created_at) as day, count(*) as count").
		Where("created_at >= ?", cutoff).
		Group("day").
		Order("day").
		Scan(&rows).Error
	return rows, err
}

// logModAction пишет строку аудита; сбой журнала не должен влиять на
// основной поток, поэтому только лог.
func logModAction(userID int64, action string, details string) {
	if store == nil {
		return
	}
	act := strings.TrimSpace(action)
	if act == "" {
		act = "unknown"
	}
	entry := ModEntry{
		Instance: instanceID,
		UserID:   userID,
		Action:   act,
		Details:  shorten(strings.TrimSpace(details), 2000),
	}
	if err := store.DB.Create(&entry).Error; err != nil {
		log.Printf("⚠️ Не удалось записать лог модерации: %v", err)
	}
}
