package templates

import (
	"github.com/soulpet-ai/soulpet-api/config"
)

// Option pattern
type Option func(*EmailData)

func WithPet(name, mood string) Option {
	return func(d *EmailData) {
		d.PetName = name
		d.Mood = mood
	}
}

func WithStats(happiness, hunger, affection int) Option {
	return func(d *EmailData) {
		d.Happiness = happiness
		d.Hunger = hunger
		d.Affection = affection
	}
}

// NewBaseEmailData fills common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
		DashboardURL:   cfg.DashboardURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewCareReminderData(cfg *config.Config, name, email, petName, mood string, happiness, hunger, affection int) map[string]any {
	d := NewBaseEmailData(cfg, CareReminder, name, email, email,
		WithPet(petName, mood),
		WithStats(happiness, hunger, affection),
	)
	return ToMap(d)
}
