package storage

import (
	"context"
	"errors"
	"fmt"

	"geomarket/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps blobs in the kv_records table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the kv table and wraps db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := models.MigrateKVRecord(db); err != nil {
		return nil, fmt.Errorf("migrate kv_records: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var record models.KVRecord
	err := g.db.WithContext(ctx).Where(&models.KVRecord{Key: key}).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return record.Value, nil
}

func (g *GormStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	record := models.KVRecord{Key: key, Value: value}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (g *GormStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := g.db.WithContext(ctx).Where(&models.KVRecord{Key: key}).Delete(&models.KVRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
