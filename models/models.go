package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeLayout renders timestamps the way the dispenser unit and the web
// dashboard expect them: UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime formats t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// PillDefinition is a medication configured on one dispenser module.
type PillDefinition struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Name            string    `gorm:"index;not null" json:"name"`
	IntervalSeconds int       `gorm:"not null" json:"intervalSeconds"`
	Module          int       `gorm:"index;not null" json:"module"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for PillDefinition
func (PillDefinition) TableName() string {
	return "pill_definitions"
}

// BeforeCreate assigns a random id when the caller did not. Times are
// stored in UTC so SQL ordering matches instant ordering.
func (p *PillDefinition) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return nil
}

func (p PillDefinition) MarshalJSON() ([]byte, error) {
	type alias PillDefinition
	return json.Marshal(struct {
		alias
		CreatedAt string `json:"createdAt"`
	}{alias(p), FormatTime(p.CreatedAt)})
}

// DispenseStatistic is one dispense/pickup event reported by a module.
// No ordering between DispensedAt and PickedUpAt is enforced.
type DispenseStatistic struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Module      int       `gorm:"index;not null" json:"module"`
	DispensedAt time.Time `gorm:"not null" json:"dispensedAt"`
	PickedUpAt  time.Time `gorm:"not null" json:"pickedUpAt"`
	RecordedAt  time.Time `gorm:"index;autoCreateTime" json:"recordedAt"`
}

// TableName specifies the table name for DispenseStatistic
func (DispenseStatistic) TableName() string {
	return "dispense_statistics"
}

// BeforeCreate assigns a random id when the caller did not and stores
// every time in UTC.
func (s *DispenseStatistic) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.DispensedAt = s.DispensedAt.UTC()
	s.PickedUpAt = s.PickedUpAt.UTC()
	s.RecordedAt = s.RecordedAt.UTC()
	return nil
}

// PickupDelay is how long the pill waited in the tray. It is negative when
// the unit reported the pickup before the dispense.
func (s DispenseStatistic) PickupDelay() time.Duration {
	return s.PickedUpAt.Sub(s.DispensedAt)
}

func (s DispenseStatistic) MarshalJSON() ([]byte, error) {
	type alias DispenseStatistic
	return json.Marshal(struct {
		alias
		DispensedAt string `json:"dispensedAt"`
		PickedUpAt  string `json:"pickedUpAt"`
		RecordedAt  string `json:"recordedAt"`
	}{alias(s), FormatTime(s.DispensedAt), FormatTime(s.PickedUpAt), FormatTime(s.RecordedAt)})
}

// ModuleBuckets groups pill definitions by dispenser module. Only modules 1
// and 2 exist on the hardware; anything else is left out.
type ModuleBuckets struct {
	Modulo1 []PillDefinition `json:"modulo1"`
	Modulo2 []PillDefinition `json:"modulo2"`
}

// AutoMigrate runs database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PillDefinition{},
		&DispenseStatistic{},
	)
}
