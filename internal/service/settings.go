package service

import (
	"context"
	"fmt"

	"github.com/tavola-pos/api/internal/config"
)

// AppConfig returns the current panel configuration.
func (s *Restaurant) AppConfig() config.AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// SaveAppConfig normalizes cfg, persists it and makes it current. The new
// max discount only applies to discounts set afterwards.
func (s *Restaurant) SaveAppConfig(ctx context.Context, cfg config.AppConfig) (config.AppConfig, error) {
	cfg = cfg.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveAppConfig(ctx, cfg); err != nil {
		return config.AppConfig{}, external("persistence", fmt.Errorf("save app config: %w", err))
	}
	s.cfg = cfg
	s.version++
	return cfg.Clone(), nil
}

// SectionEnabled reports whether the dashboard section is switched on.
func (s *Restaurant) SectionEnabled(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SectionEnabled(section)
}
