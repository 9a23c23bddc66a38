package entity

import (
	"context"
	"strings"
	"time"
)

type ScoringWeights struct {
	TechStack      int `json:"techStack"`
	SocialPresence int `json:"socialPresence"`
	SeoHealth      int `json:"seoHealth"`
}

// UserProfile is the per-owner singleton holding sender identity,
// credentials, gamification counters and settings.
type UserProfile struct {
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Website               string          `json:"website"`
	LandingPage           string          `json:"landingPage,omitempty"`
	JobTitle              string          `json:"jobTitle,omitempty"`
	APIKey                string          `json:"apiKey,omitempty"`
	CustomInstructions    string          `json:"customInstructions,omitempty"`
	EmailSignature        string          `json:"emailSignature,omitempty"`
	WebhookURL            string          `json:"webhookUrl,omitempty"`
	HubSpotKey            string          `json:"hubspotKey,omitempty"`
	SalesforceKey         string          `json:"salesforceKey,omitempty"`
	SalesforceInstanceURL string          `json:"salesforceInstanceUrl,omitempty"`
	XP                    int             `json:"xp"`
	Level                 int             `json:"level"`
	CurrentStreak         int             `json:"currentStreak"`
	LastLoginDate         string          `json:"lastLoginDate,omitempty"`
	Badges                []string        `json:"badges"`
	HasSeenOnboarding     bool            `json:"hasSeenOnboarding,omitempty"`
	ScoringWeights        *ScoringWeights `json:"scoringWeights,omitempty"`
}

// NewProfile is the profile created on first access. The name is derived
// from the owner email, falling back to "Guest".
func NewProfile(email string, now time.Time) *UserProfile {
	name := "Guest"
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		name = local
	}
	if email == "" {
		email = "demo@offline.local"
	}
	return &UserProfile{
		Name:          name,
		Email:         email,
		Level:         1,
		CurrentStreak: 1,
		LastLoginDate: now.Format(time.DateOnly),
		Badges:        []string{},
	}
}

// HasCRM reports whether any CRM destination is configured.
func (p *UserProfile) HasCRM() bool {
	return p.HubSpotKey != "" || (p.SalesforceKey != "" && p.SalesforceInstanceURL != "") || p.WebhookURL != ""
}

// MergeSettings applies a settings payload on top of the stored profile.
// Gamification counters always come from the stored profile.
func (p *UserProfile) MergeSettings(settings UserProfile) *UserProfile {
	merged := settings
	merged.XP = p.XP
	merged.Level = p.Level
	if merged.Level == 0 {
		merged.Level = 1
	}
	merged.CurrentStreak = p.CurrentStreak
	if merged.CurrentStreak == 0 {
		merged.CurrentStreak = 1
	}
	merged.LastLoginDate = p.LastLoginDate
	merged.Badges = append([]string{}, p.Badges...)
	if merged.ScoringWeights == nil && p.ScoringWeights != nil {
		w := *p.ScoringWeights
		merged.ScoringWeights = &w
	}
	return &merged
}

func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Badges = cloneSlice(p.Badges)
	if p.ScoringWeights != nil {
		w := *p.ScoringWeights
		c.ScoringWeights = &w
	}
	return &c
}

type ProfileRepository interface {
	Get(ctx context.Context) *UserProfile
	Save(ctx context.Context, profile *UserProfile)
}
