package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Salon struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	// nil falls back to the configured business rules; zero is a real value
	MinAdvanceMinutes *int       `json:"min_advance_minutes"`
	MaxReschedules    *int       `json:"max_reschedules"`
	Weekdays          WeekdaySet `gorm:"type:varchar(20)" json:"weekdays"`
	OpenTime          string     `gorm:"size:5" json:"open_time"`
	CloseTime         string     `gorm:"size:5" json:"close_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeekdaySet lists open weekdays (0 = Sunday), stored as "1,2,3". A nil set
// is NULL.
type WeekdaySet []int

func (w WeekdaySet) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	parts := make([]string, len(w))
	for i, d := range w {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ","), nil
}

func (w *WeekdaySet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("weekday set: unsupported type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*w = nil
		return nil
	}

	set := make(WeekdaySet, 0, 7)
	for _, part := range strings.Split(raw, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("weekday set %q: %w", raw, err)
		}
		set = append(set, d)
	}
	*w = set
	return nil
}

// Valid requires at least one day, each in 0..6, without repeats.
func (w WeekdaySet) Valid() bool {
	if len(w) == 0 {
		return false
	}
	seen := make(map[int]bool, len(w))
	for _, d := range w {
		if d < 0 || d > 6 || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}
