package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalDB is the on-device key/value store the application state lives in.
// Values are whole JSON documents, one row per key.
type LocalDB struct {
	db     *gorm.DB
	driver string
	dbPath string
}

// StorageItem is one key of local storage
type StorageItem struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across gorm naming strategies
func (StorageItem) TableName() string {
	return "local_storage"
}

// runMigrations creates necessary tables
func (l *LocalDB) runMigrations() error {
	return l.db.AutoMigrate(&StorageItem{})
}

// GetItem returns the value stored under key; ok is false when the key is absent
func (l *LocalDB) GetItem(key string) (value string, ok bool, err error) {
	var item StorageItem
	err = l.db.Where("key = ?", key).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return item.Value, true, nil
}

// SetItems writes several keys in one transaction
func (l *LocalDB) SetItems(items map[string]string) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for key, value := range items {
			item := StorageItem{Key: key, Value: value, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&item).Error
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
		}
		return nil
	})
}

// Keys lists stored keys in order
func (l *LocalDB) Keys() ([]string, error) {
	var keys []string
	err := l.db.Model(&StorageItem{}).Order("key").Pluck("key", &keys).Error
	return keys, err
}

// Driver returns the configured storage driver
func (l *LocalDB) Driver() string {
	return l.driver
}

// Path returns the SQLite file path, empty for postgres
func (l *LocalDB) Path() string {
	return l.dbPath
}

// Close closes the database connection
func (l *LocalDB) Close() error {
	if l.db == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
