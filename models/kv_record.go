package models

import (
	"time"

	"gorm.io/gorm"
)

// KVRecord is one JSON blob stored under a namespaced key.
type KVRecord struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)" json:"key"`
	Value     []byte    `gorm:"type:longblob;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName pins the table name regardless of naming strategy.
func (KVRecord) TableName() string {
	return "kv_records"
}

// MigrateKVRecord creates the kv table when it is missing.
func MigrateKVRecord(db *gorm.DB) error {
	if db.Migrator().HasTable(&KVRecord{}) {
		return nil
	}
	return db.AutoMigrate(&KVRecord{})
}
