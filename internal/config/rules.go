package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// BusinessRules are the salon-wide defaults. A salon row can override
// lead time and reschedule cap.
type BusinessRules struct {
	OpenTime          string        `toml:"open_time"`
	CloseTime         string        `toml:"close_time"`
	Weekdays          []int         `toml:"weekdays"`
	MinAdvanceMinutes int           `toml:"min_advance_minutes"`
	MaxReschedules    int           `toml:"max_reschedules"`
	DepositTTL        time.Duration `toml:"-"`
	DepositTTLMinutes int           `toml:"deposit_ttl_minutes"`
	ReminderOffsets   []int         `toml:"reminder_offsets_minutes"`
	MaxSendAttempts   int           `toml:"max_send_attempts"`
}

func DefaultBusinessRules() BusinessRules {
	return BusinessRules{
		OpenTime:          "09:00",
		CloseTime:         "18:00",
		Weekdays:          []int{1, 2, 3, 4, 5, 6},
		MinAdvanceMinutes: 24 * 60,
		MaxReschedules:    2,
		DepositTTL:        30 * time.Minute,
		DepositTTLMinutes: 30,
		ReminderOffsets:   []int{24 * 60, 120},
		MaxSendAttempts:   3,
	}
}

// LoadBusinessRules reads a TOML file on top of the defaults.
func LoadBusinessRules(path string) (BusinessRules, error) {
	rules := DefaultBusinessRules()

	if _, err := toml.DecodeFile(path, &rules); err != nil {
		return BusinessRules{}, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := rules.normalize(); err != nil {
		return BusinessRules{}, err
	}

	return rules, nil
}

func (r *BusinessRules) normalize() error {
	open, err := time.Parse("15:04", r.OpenTime)
	if err != nil {
		return fmt.Errorf("invalid open_time %q", r.OpenTime)
	}
	closeAt, err := time.Parse("15:04", r.CloseTime)
	if err != nil {
		return fmt.Errorf("invalid close_time %q", r.CloseTime)
	}
	if !open.Before(closeAt) {
		return fmt.Errorf("open_time must be before close_time")
	}

	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			return fmt.Errorf("invalid weekday %d", wd)
		}
	}

	if r.MinAdvanceMinutes < 0 {
		return fmt.Errorf("min_advance_minutes must not be negative")
	}
	if r.MaxReschedules < 0 {
		return fmt.Errorf("max_reschedules must not be negative")
	}
	if r.DepositTTLMinutes <= 0 {
		r.DepositTTLMinutes = 30
	}
	r.DepositTTL = time.Duration(r.DepositTTLMinutes) * time.Minute

	if r.MaxSendAttempts <= 0 {
		r.MaxSendAttempts = 3
	}

	return nil
}
