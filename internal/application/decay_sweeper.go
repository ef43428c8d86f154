package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/domain/companion"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	repo "github.com/soulpet-ai/soulpet-api/internal/domain/repository"
)

// CarePublisher emits care events for the reminder worker.
type CarePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// CareEvent is queued when a pet's stats drop low enough to need
// attention. The worker turns these into reminder emails.
type CareEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	UserName  string `json:"user_name"`
	PetID     string `json:"pet_id"`
	PetName   string `json:"pet_name"`
	Mood      string `json:"mood"`
	Happiness int    `json:"happiness"`
	Hunger    int    `json:"hunger"`
	Affection int    `json:"affection"`
	QueuedAt  string `json:"queued_at"`
}

// DecaySweeper walks every stored profile on an interval and applies
// pending stat decay so pets wilt even while their owners are offline.
type DecaySweeper struct {
	Store     repo.SnapshotStore
	Publisher CarePublisher
	Logger    *logrus.Logger
	Interval  time.Duration
}

func NewDecaySweeper(store repo.SnapshotStore, pub CarePublisher, logger *logrus.Logger, interval time.Duration) *DecaySweeper {
	return &DecaySweeper{Store: store, Publisher: pub, Logger: logger, Interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (d *DecaySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Sweep(ctx)
		}
	}
}

// Sweep applies decay across all profiles and returns how many were
// updated.
func (d *DecaySweeper) Sweep(ctx context.Context) int {
	ids, err := d.Store.UserIDs(ctx)
	if err != nil {
		if d.Logger != nil {
			d.Logger.WithError(err).Error("decay sweep: listing users failed")
		}
		return 0
	}

	updated := 0
	now := time.Now().UnixMilli()
	for _, id := range ids {
		u, err := d.Store.Load(ctx, id)
		if err != nil || u == nil {
			if err != nil && d.Logger != nil {
				d.Logger.WithError(err).WithField("user_id", id).Warn("decay sweep: load failed")
			}
			continue
		}

		touched := companion.Decay(u.Pets, now)
		if len(touched) == 0 {
			continue
		}
		u.LastUpdate = now
		if err := d.Store.Save(ctx, u); err != nil {
			if d.Logger != nil {
				d.Logger.WithError(err).WithField("user_id", id).Warn("decay sweep: save failed")
			}
			continue
		}
		updated++
		d.queueCareEvents(ctx, u, touched)
	}

	if d.Logger != nil {
		d.Logger.WithField("users", len(ids)).WithField("updated", updated).Info("decay sweep complete")
	}
	return updated
}

func (d *DecaySweeper) queueCareEvents(ctx context.Context, u *entity.User, touched []*entity.Pet) {
	if d.Publisher == nil {
		return
	}
	for _, pet := range touched {
		if !companion.NeedsCare(pet) {
			continue
		}
		ev := CareEvent{
			UserID:    u.ID,
			Email:     u.Email,
			UserName:  u.Name,
			PetID:     pet.ID,
			PetName:   pet.Name,
			Mood:      pet.Mood,
			Happiness: pet.Happiness,
			Hunger:    pet.Hunger,
			Affection: pet.Affection,
			QueuedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := d.Publisher.PublishJSON(ctx, ev); err != nil && d.Logger != nil {
			d.Logger.WithError(err).WithField("pet_id", pet.ID).Warn("care event publish failed")
		}
	}
}
