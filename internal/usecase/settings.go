package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/prospector/internal/entity"
)

type SettingsUseCase struct {
	Workspace *Workspace
	Logger    *slog.Logger
}

func NewSettingsUseCase(ws *Workspace) *SettingsUseCase {
	return &SettingsUseCase{Workspace: ws, Logger: slog.Default()}
}

// SaveSettings merges settings into the stored profile. Gamification
// counters always come from the stored profile.
func (uc *SettingsUseCase) SaveSettings(ctx context.Context, settings entity.UserProfile) *entity.UserProfile {
	stored := uc.Workspace.profileOrDefault()
	merged := stored.MergeSettings(settings)
	if merged.Email == "" {
		merged.Email = stored.Email
	}
	if merged.Name == "" {
		merged.Name = stored.Name
	}

	saved := uc.Workspace.SaveProfile(ctx, merged)
	uc.Logger.Info("settings saved", "email", saved.Email, "crm", saved.HasCRM())
	uc.Workspace.Notify("Settings saved", entity.NotifySuccess)
	return saved
}
