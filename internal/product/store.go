package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scannedProduct is the sqlite row backing the persisted product cache. Scan
// bookkeeping (count, first/last seen) mirrors the shopping history the
// device keeps across restarts.
type scannedProduct struct {
	Barcode        string   `gorm:"primaryKey"`
	Name           string   `gorm:"not null"`
	Brand          string   `gorm:"not null"`
	Ingredients    []string `gorm:"serializer:json"`
	Allergens      []string `gorm:"serializer:json"`
	ImageURL       string
	NutritionGrade string
	ScanCount      int `gorm:"not null;default:1"`
	FirstSeenAt    time.Time
	LastSeenAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (scannedProduct) TableName() string {
	return "scanned_products"
}

// Store persists resolved products so the cache survives restarts.
type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) (*Store, error) {
	if conn == nil {
		return nil, fmt.Errorf("gorm connection required")
	}
	return &Store{conn: conn}, nil
}

// Migrate creates or updates the backing table.
func (s *Store) Migrate(ctx context.Context) error {
	return s.conn.WithContext(ctx).AutoMigrate(&scannedProduct{})
}

// Save upserts the record and bumps its scan bookkeeping. Last writer wins
// when a reset races an in-flight lookup.
func (s *Store) Save(ctx context.Context, record Record) error {
	now := time.Now().UTC()

	var existing scannedProduct
	err := s.conn.WithContext(ctx).First(&existing, "barcode = ?", record.Barcode).Error
	switch {
	case err == nil:
		existing.Name = record.Name
		existing.Brand = record.Brand
		existing.Ingredients = record.Ingredients
		existing.Allergens = record.Allergens
		existing.ImageURL = record.ImageURL
		existing.NutritionGrade = record.NutritionGrade
		existing.ScanCount++
		existing.LastSeenAt = now
		return s.conn.WithContext(ctx).Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := scannedProduct{
			Barcode:        record.Barcode,
			Name:           record.Name,
			Brand:          record.Brand,
			Ingredients:    record.Ingredients,
			Allergens:      record.Allergens,
			ImageURL:       record.ImageURL,
			NutritionGrade: record.NutritionGrade,
			ScanCount:      1,
			FirstSeenAt:    now,
			LastSeenAt:     now,
		}
		return s.conn.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}},
			UpdateAll: true,
		}).Create(&row).Error
	default:
		return fmt.Errorf("loading product %s: %w", record.Barcode, err)
	}
}

// LoadAll returns every persisted record for cache warming on startup.
func (s *Store) LoadAll(ctx context.Context) ([]Record, error) {
	var rows []scannedProduct
	if err := s.conn.WithContext(ctx).Order("last_seen_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading persisted products: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			Barcode:        row.Barcode,
			Name:           row.Name,
			Brand:          row.Brand,
			Ingredients:    row.Ingredients,
			Allergens:      row.Allergens,
			ImageURL:       row.ImageURL,
			NutritionGrade: row.NutritionGrade,
		})
	}
	return records, nil
}

// ScanCount reports how many times the barcode has been saved.
func (s *Store) ScanCount(ctx context.Context, barcode string) (int, error) {
	var row scannedProduct
	err := s.conn.WithContext(ctx).Select("scan_count").First(&row, "barcode = ?", barcode).Error
	if err != nil {
		return 0, err
	}
	return row.ScanCount, nil
}

// Truncate removes every persisted record. Used by cache reset.
func (s *Store) Truncate(ctx context.Context) error {
	return s.conn.WithContext(ctx).Where("1 = 1").Delete(&scannedProduct{}).Error
}
