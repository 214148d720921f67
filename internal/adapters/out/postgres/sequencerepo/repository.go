// Package sequencerepo keeps named counters in PostgreSQL.
package sequencerepo

import (
	"context"

	"catering/internal/pkg/errs"

	"gorm.io/gorm"
)

// CounterDTO is one named counter. Value is the next number to hand out.
type CounterDTO struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null"`
}

func (CounterDTO) TableName() string {
	return "sequence_counters"
}

// GormSequenceCounter implements ports.SequenceCounter with a single upsert.
type GormSequenceCounter struct {
	db *gorm.DB
}

func NewGormSequenceCounter(db *gorm.DB) *GormSequenceCounter {
	return &GormSequenceCounter{db: db}
}

// IncrementAndGet runs outside any unit of work so the row lock is released at once.
func (r *GormSequenceCounter) IncrementAndGet(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errs.NewValueIsRequiredError("counter name")
	}

	var previous int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (name, value)
		VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value - 1
	`, name).Scan(&previous).Error
	if err != nil {
		return 0, err
	}

	return previous, nil
}
