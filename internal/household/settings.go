package household

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/models"
)

// Theme names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	themeKey = "theme"
)

// Theme returns the saved theme, dark when unset
func (s *Service) Theme() string {
	v, err := s.store.GetSetting(themeKey)
	if err != nil {
		s.log.Warn("read theme", zap.Error(err))
		return ThemeDark
	}
	if v != ThemeLight {
		return ThemeDark
	}
	return v
}

// SetTheme saves the theme choice
func (s *Service) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := s.store.SetSetting(themeKey, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ResetAll deletes every member, task, history entry and assignment at once
func (s *Service) ResetAll(ctx context.Context) error {
	b := s.store.Batch()
	for _, c := range models.Collections {
		b.Clear(c)
	}
	if err := s.commit(ctx, "reset", b); err != nil {
		return err
	}
	s.log.Info("household data reset")
	return nil
}
