package config

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
)

// AppConfig is the restaurant-level configuration edited from the admin panel.
// Callers decode partial updates on top of the current value, so absent JSON
// fields keep what was there; Normalize then applies the per-field rules.
type AppConfig struct {
	Title           string          `json:"title"`
	Theme           string          `json:"theme"`
	Font            string          `json:"font"`
	Currency        string          `json:"currency"`
	MaxDiscount     decimal.Decimal `json:"max_discount"`
	LoyaltyRate     decimal.Decimal `json:"loyalty_rate"`
	EnabledSections []string        `json:"enabled_sections"`
	GSTNumber       string          `json:"gst_number,omitempty"`
}

var (
	hundred            = decimal.NewFromInt(100)
	defaultLoyaltyRate = decimal.New(1, -1) // 1 point per 10 currency units
)

// DefaultAppConfig returns the configuration used before anything is saved.
func DefaultAppConfig() AppConfig {
	sections := make([]string, len(enum.AllSections))
	copy(sections, enum.AllSections)
	return AppConfig{
		Title:           "Tavola",
		Theme:           "light",
		Font:            "Inter",
		Currency:        "$",
		MaxDiscount:     hundred,
		LoyaltyRate:     defaultLoyaltyRate,
		EnabledSections: sections,
	}
}

// Normalize applies the defaulting rules:
//   - blank title/theme/font/currency fall back to the defaults
//   - max_discount is clamped into [0, 100]; 0 disables discounts
//   - a negative loyalty_rate falls back to 0.1; 0 disables accrual
//   - enabled_sections drops unknown and duplicate names; nil means all sections
//   - gst_number is trimmed
func (c AppConfig) Normalize() AppConfig {
	def := DefaultAppConfig()
	out := c

	if strings.TrimSpace(out.Title) == "" {
		out.Title = def.Title
	}
	if strings.TrimSpace(out.Theme) == "" {
		out.Theme = def.Theme
	}
	if strings.TrimSpace(out.Font) == "" {
		out.Font = def.Font
	}
	if strings.TrimSpace(out.Currency) == "" {
		out.Currency = def.Currency
	}

	if out.MaxDiscount.IsNegative() {
		out.MaxDiscount = decimal.Zero
	}
	if out.MaxDiscount.GreaterThan(hundred) {
		out.MaxDiscount = hundred
	}

	if out.LoyaltyRate.IsNegative() {
		out.LoyaltyRate = def.LoyaltyRate
	}

	if out.EnabledSections == nil {
		out.EnabledSections = def.EnabledSections
	} else {
		seen := make(map[string]bool, len(out.EnabledSections))
		sections := make([]string, 0, len(out.EnabledSections))
		for _, s := range out.EnabledSections {
			s = strings.ToLower(strings.TrimSpace(s))
			if !enum.IsSection(s) || seen[s] {
				continue
			}
			seen[s] = true
			sections = append(sections, s)
		}
		out.EnabledSections = sections
	}

	out.GSTNumber = strings.TrimSpace(out.GSTNumber)
	return out
}

// SectionEnabled reports whether the admin panel section is switched on.
func (c AppConfig) SectionEnabled(section string) bool {
	for _, s := range c.EnabledSections {
		if s == section {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with c.
func (c AppConfig) Clone() AppConfig {
	out := c
	if c.EnabledSections != nil {
		out.EnabledSections = append([]string(nil), c.EnabledSections...)
	}
	return out
}
