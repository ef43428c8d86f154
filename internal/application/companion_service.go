package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/domain/companion"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	repo "github.com/soulpet-ai/soulpet-api/internal/domain/repository"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrPetNotFound       = errors.New("pet not found")
	ErrInsufficientCoins = errors.New("insufficient cuddle coins")
	ErrFeedCooldown      = errors.New("pet was fed recently")
	ErrPetCooldown       = errors.New("pet was petted recently")
	ErrNoPets            = errors.New("no pets to boost")
)

const (
	WelcomeBonus  = 10000
	PetCost       = 10000
	PetBonus      = 15
	BoostBonus    = 50
	BoostBondGain = 10
)

// CompanionService owns the per-user companion profile: coins, pets,
// cooldowns and stat decay. Every mutation reloads the snapshot,
// catches up pending decay, applies the change and persists the whole
// aggregate back.
type CompanionService struct {
	Store       repo.SnapshotStore
	Redis       *redis.Client
	Logger      *logrus.Logger
	ES          *elasticsearch.Client
	ESPetsIndex string
	GCS         *storage.Client
	GCSBucket   string

	mu        sync.Mutex
	observers map[int]func(*entity.User)
	nextObs   int
}

func NewCompanionService(store repo.SnapshotStore, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esPetsIndex string, gcs *storage.Client, gcsBucket string) *CompanionService {
	return &CompanionService{
		Store:       store,
		Redis:       rdb,
		Logger:      logger,
		ES:          es,
		ESPetsIndex: esPetsIndex,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		observers:   make(map[int]func(*entity.User)),
	}
}

func emailKey(email string) string {
	return "companion:email:" + strings.ToLower(strings.TrimSpace(email))
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Subscribe registers a callback invoked after every persisted profile
// change. The returned function removes the subscription.
func (s *CompanionService) Subscribe(fn func(*entity.User)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *CompanionService) notify(u *entity.User) {
	s.mu.Lock()
	fns := make([]func(*entity.User), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}

// Register creates a fresh profile with the welcome bonus and no pets.
func (s *CompanionService) Register(ctx context.Context, email, name string) (*entity.User, error) {
	if s.Redis != nil {
		if id, err := s.Redis.Get(ctx, emailKey(email)).Result(); err == nil && id != "" {
			return nil, ErrEmailTaken
		}
	}

	u := &entity.User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        name,
		JoinDate:    today(),
		TotalPets:   0,
		CuddleCoins: WelcomeBonus,
		Level:       1,
		IsNewUser:   true,
		Pets:        []*entity.Pet{},
		LastUpdate:  nowMillis(),
	}
	if err := s.Store.Save(ctx, u); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, emailKey(email), u.ID, 0).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("email index write failed")
		}
	}
	s.notify(u)
	return u, nil
}

// Login resolves the profile for an email. Unknown emails receive the
// demo profile so the experience works without prior registration.
func (s *CompanionService) Login(ctx context.Context, email string) (*entity.User, error) {
	if s.Redis != nil {
		if id, err := s.Redis.Get(ctx, emailKey(email)).Result(); err == nil && id != "" {
			return s.Bootstrap(ctx, id)
		}
	}

	u := DemoProfile(email)
	if err := s.Store.Save(ctx, u); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, emailKey(email), u.ID, 0).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("email index write failed")
		}
	}
	for _, p := range u.Pets {
		_ = s.indexPet(ctx, u.ID, p)
	}
	s.notify(u)
	return u, nil
}

// Bootstrap loads a profile, applies any decay intervals that elapsed
// while the user was away and persists the caught-up state.
func (s *CompanionService) Bootstrap(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if touched := companion.Decay(u.Pets, nowMillis()); len(touched) > 0 {
		u.LastUpdate = nowMillis()
		if err := s.Store.Save(ctx, u); err != nil {
			return nil, err
		}
		s.notify(u)
	}
	return u, nil
}

// mutate runs fn against the decay-adjusted profile and persists the
// result. fn returning an error aborts without saving.
func (s *CompanionService) mutate(ctx context.Context, userID string, fn func(u *entity.User) error) (*entity.User, error) {
	u, err := s.Store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	companion.Decay(u.Pets, nowMillis())
	if err := fn(u); err != nil {
		return nil, err
	}
	u.LastUpdate = nowMillis()
	if err := s.Store.Save(ctx, u); err != nil {
		return nil, err
	}
	s.notify(u)
	return u, nil
}

// CompleteOnboarding clears the new-user flag after the intro flow.
func (s *CompanionService) CompleteOnboarding(ctx context.Context, userID string) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) error {
		u.IsNewUser = false
		return nil
	})
}

type CreatePetInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Personality string `json:"personality"`
	Voice       string `json:"voice"`
	Appearance  string `json:"appearance"`
	Backstory   string `json:"backstory"`
}

// CreatePet mints a new companion. Adoption costs PetCost coins and
// immediately pays back a small bonding bonus.
func (s *CompanionService) CreatePet(ctx context.Context, userID string, in CreatePetInput) (*entity.User, *entity.Pet, error) {
	var created *entity.Pet
	u, err := s.mutate(ctx, userID, func(u *entity.User) error {
		if u.CuddleCoins < PetCost {
			return ErrInsufficientCoins
		}

		now := nowMillis()
		pet := &entity.Pet{
			ID:            uuid.NewString(),
			Name:          orDefault(in.Name, "Unnamed Pet"),
			Type:          orDefault(in.Type, "custom"),
			Personality:   orDefault(in.Personality, "playful"),
			Voice:         orDefault(in.Voice, "cute"),
			Appearance:    orDefault(in.Appearance, "A beautiful and unique companion"),
			Backstory:     orDefault(in.Backstory, "A wonderful soul waiting to share love and joy."),
			CreatedDate:   today(),
			Level:         1,
			Happiness:     100,
			Energy:        100,
			Hunger:        80,
			Affection:     50,
			Mood:          "excited",
			Outfit:        "Basic Collar",
			LastFed:       "Never",
			LastPetted:    "Never",
			EmotionalBond: 25,
			Status:        "online",
			LastDecayTime: now,
		}
		pet.Image = companion.ImageForType(pet.Type)
		pet.MoodAura = companion.AuraForPersonality(pet.Personality)

		u.CuddleCoins = u.CuddleCoins - PetCost + PetBonus
		u.Pets = append(u.Pets, pet)
		u.RecalcLevel()
		u.CoinUpdateID++
		created = pet
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	_ = s.indexPet(ctx, userID, created)
	return u, created, nil
}

// AdjustCoins applies a signed delta to the balance, clamped at zero.
func (s *CompanionService) AdjustCoins(ctx context.Context, userID string, delta int) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) error {
		next := u.CuddleCoins + delta
		if next < 0 {
			next = 0
		}
		u.CuddleCoins = next
		u.CoinUpdateID++
		return nil
	})
}

// PetStatsUpdate is a partial update; nil fields are left untouched.
type PetStatsUpdate struct {
	Happiness     *int    `json:"happiness"`
	Energy        *int    `json:"energy"`
	Hunger        *int    `json:"hunger"`
	Affection     *int    `json:"affection"`
	Mood          *string `json:"mood"`
	Outfit        *string `json:"outfit"`
	Status        *string `json:"status"`
	EmotionalBond *int    `json:"emotionalBond"`
	LastFed       *string `json:"lastFed"`
	LastPetted    *string `json:"lastPetted"`
}

// UpdatePetStats merges the given fields into one pet. Setting lastFed
// or lastPetted to "Just now" also restarts the matching cooldown.
func (s *CompanionService) UpdatePetStats(ctx context.Context, userID, petID string, up PetStatsUpdate) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) error {
		pet := u.FindPet(petID)
		if pet == nil {
			return ErrPetNotFound
		}
		now := nowMillis()

		if up.Happiness != nil {
			pet.Happiness = companion.Clamp100(*up.Happiness)
		}
		if up.Energy != nil {
			pet.Energy = companion.Clamp100(*up.Energy)
		}
		if up.Hunger != nil {
			pet.Hunger = companion.Clamp100(*up.Hunger)
		}
		if up.Affection != nil {
			pet.Affection = companion.Clamp100(*up.Affection)
		}
		if up.Mood != nil {
			pet.Mood = *up.Mood
		}
		if up.Outfit != nil {
			pet.Outfit = *up.Outfit
		}
		if up.Status != nil {
			pet.Status = *up.Status
		}
		if up.EmotionalBond != nil {
			pet.EmotionalBond = companion.Clamp100(*up.EmotionalBond)
		}
		if up.LastFed != nil {
			pet.LastFed = *up.LastFed
			if *up.LastFed == "Just now" {
				pet.LastFeedTime = now
			}
		}
		if up.LastPetted != nil {
			pet.LastPetted = *up.LastPetted
			if *up.LastPetted == "Just now" {
				pet.LastPetTime = now
			}
		}
		u.CoinUpdateID++
		return nil
	})
}

// BoostAllPets maxes out every pet's stats and pays a bonus per pet.
func (s *CompanionService) BoostAllPets(ctx context.Context, userID string) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) error {
		if len(u.Pets) == 0 {
			return ErrNoPets
		}
		for _, pet := range u.Pets {
			pet.Affection = 100
			pet.Hunger = 100
			pet.Happiness = 100
			pet.Energy = 100
			pet.Mood = "transcendent"
			pet.EmotionalBond = companion.Clamp100(pet.EmotionalBond + BoostBondGain)
			pet.CoinsEarned += BoostBonus
			pet.LastFed = "Just blessed with magical nourishment"
			pet.LastPetted = "Just received divine love"
			pet.Status = "blessed"
		}
		u.CoinUpdateID++
		return nil
	})
}

// FeedPet satisfies hunger and pays out a random coin reward. Feeding
// is gated by an eight hour cooldown per pet.
func (s *CompanionService) FeedPet(ctx context.Context, userID, petID string) (*entity.User, int, error) {
	var reward int
	u, err := s.mutate(ctx, userID, func(u *entity.User) error {
		pet := u.FindPet(petID)
		if pet == nil {
			return ErrPetNotFound
		}
		now := nowMillis()
		if !companion.CanFeed(pet, now) {
			return ErrFeedCooldown
		}

		pet.Hunger = companion.Clamp100(pet.Hunger + 30)
		pet.Happiness = companion.Clamp100(pet.Happiness + 15)
		pet.Affection = companion.Clamp100(pet.Affection + 10)
		pet.Mood = "grateful"
		pet.EmotionalBond = companion.Clamp100(pet.EmotionalBond + 2)
		pet.LastFed = "Just now"
		pet.LastFeedTime = now

		reward = rand.Intn(25) + 15
		pet.CoinsEarned += reward
		u.CuddleCoins += reward
		u.CoinUpdateID++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return u, reward, nil
}

// PetPet rewards affection and shares the same cooldown scheme as
// feeding.
func (s *CompanionService) PetPet(ctx context.Context, userID, petID string) (*entity.User, int, error) {
	var reward int
	u, err := s.mutate(ctx, userID, func(u *entity.User) error {
		pet := u.FindPet(petID)
		if pet == nil {
			return ErrPetNotFound
		}
		now := nowMillis()
		if !companion.CanPet(pet, now) {
			return ErrPetCooldown
		}

		pet.Affection = companion.Clamp100(pet.Affection + 20)
		pet.Happiness = companion.Clamp100(pet.Happiness + 12)
		pet.Energy = companion.Clamp100(pet.Energy + 8)
		pet.Mood = "loved"
		pet.EmotionalBond = companion.Clamp100(pet.EmotionalBond + 3)
		pet.LastPetted = "Just now"
		pet.LastPetTime = now

		reward = rand.Intn(20) + 10
		pet.CoinsEarned += reward
		u.CuddleCoins += reward
		u.CoinUpdateID++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return u, reward, nil
}

// RecordChat credits a conversation with a pet. Voice messages earn
// more and bond faster than text.
func (s *CompanionService) RecordChat(ctx context.Context, userID, petID string, voice bool) (*entity.User, int, error) {
	var reward int
	u, err := s.mutate(ctx, userID, func(u *entity.User) error {
		pet := u.FindPet(petID)
		if pet == nil {
			return ErrPetNotFound
		}
		if voice {
			reward = rand.Intn(15) + 10
			pet.EmotionalBond = companion.Clamp100(pet.EmotionalBond + 2)
		} else {
			reward = rand.Intn(10) + 5
			pet.EmotionalBond = companion.Clamp100(pet.EmotionalBond + 1)
		}
		pet.TotalChats++
		pet.CoinsEarned += reward
		u.CuddleCoins += reward
		u.CoinUpdateID++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return u, reward, nil
}

// PurchaseItem buys a closet item. A successful purchase blesses the
// whole roster.
func (s *CompanionService) PurchaseItem(ctx context.Context, userID, item string, price int) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) error {
		if u.CuddleCoins < price {
			return ErrInsufficientCoins
		}
		u.CuddleCoins -= price
		for _, pet := range u.Pets {
			pet.Affection = 100
			pet.Hunger = 100
			pet.Happiness = 100
			pet.Energy = 100
			pet.Mood = "transcendent"
			pet.EmotionalBond = companion.Clamp100(pet.EmotionalBond + BoostBondGain)
			pet.CoinsEarned += BoostBonus
			pet.LastFed = "Just blessed with magical nourishment"
			pet.LastPetted = "Just received divine love"
			pet.Status = "blessed"
			if item != "" {
				pet.Outfit = item
			}
		}
		u.CoinUpdateID++
		return nil
	})
}

// Forget removes the profile and its email index.
func (s *CompanionService) Forget(ctx context.Context, userID, email string) error {
	if err := s.Store.Remove(ctx, userID); err != nil {
		return err
	}
	if s.Redis != nil && email != "" {
		_ = helpers.RedisDel(ctx, s.Redis, emailKey(email))
	}
	return nil
}

// UploadPortrait stores a custom pet image in GCS and swaps the pet's
// image URL to it.
func (s *CompanionService) UploadPortrait(ctx context.Context, userID, petID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("portraits", userID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	var pet *entity.Pet
	_, err = s.mutate(ctx, userID, func(u *entity.User) error {
		pet = u.FindPet(petID)
		if pet == nil {
			return ErrPetNotFound
		}
		pet.Image = url
		return nil
	})
	if err != nil {
		return "", err
	}
	_ = s.indexPet(ctx, userID, pet)
	return url, nil
}

func (s *CompanionService) indexPet(ctx context.Context, userID string, p *entity.Pet) error {
	if s.ES == nil || s.ESPetsIndex == "" || p == nil {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID,
		"owner_id":    userID,
		"name":        p.Name,
		"type":        p.Type,
		"personality": p.Personality,
		"mood":        p.Mood,
		"level":       p.Level,
		"bond":        p.EmotionalBond,
		"created":     p.CreatedDate,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPetsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("pet_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("pet_id", p.ID).Warn("es index response error")
	}
	return nil
}

// SearchPets runs a multi_match query over indexed pets.
func (s *CompanionService) SearchPets(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPetsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "type", "personality"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESPetsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// DemoProfile is the seeded account used when an email logs in without
// a prior registration: an established owner with two bonded pets, one
// feedable now and one still on cooldown.
func DemoProfile(email string) *entity.User {
	now := nowMillis()
	name := email
	if i := strings.Index(email, "@"); i > 0 {
		name = email[:i]
	}
	return &entity.User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        name,
		Avatar:      "https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=100",
		JoinDate:    "2024-01-15",
		TotalPets:   2,
		CuddleCoins: 11247,
		Level:       15,
		IsNewUser:   false,
		LastUpdate:  now,
		Pets: []*entity.Pet{
			{
				ID:            uuid.NewString(),
				Name:          "Fluffy",
				Type:          "Cat",
				Personality:   "Mischievous",
				Voice:         "Cute & Sweet",
				Appearance:    "A beautiful orange tabby with bright green eyes",
				Backstory:     "Found as a kitten in a magical forest where she learned to speak with ancient trees.",
				Image:         companion.ImageForType("cat"),
				CreatedDate:   "2024-01-15",
				Level:         15,
				Happiness:     92,
				Energy:        88,
				Hunger:        65,
				Affection:     88,
				Mood:          "happy",
				MoodAura:      companion.AuraForPersonality("mischievous"),
				Outfit:        "Rainbow Collar",
				CoinsEarned:   156,
				TotalChats:    1247,
				LastFed:       "3 hours ago",
				LastPetted:    "1 hour ago",
				EmotionalBond: 95,
				Status:        "online",
				LastFeedTime:  now - 3*60*60*1000,
				LastPetTime:   now - 1*60*60*1000,
				LastDecayTime: now,
			},
			{
				ID:            uuid.NewString(),
				Name:          "Draco",
				Type:          "Dragon",
				Personality:   "Wise",
				Voice:         "Deep & Wise",
				Appearance:    "A majestic blue dragon with silver scales and ancient eyes",
				Backstory:     "An ancient dragon who has seen the rise and fall of civilizations.",
				Image:         companion.ImageForType("dragon"),
				CreatedDate:   "2024-01-20",
				Level:         12,
				Happiness:     88,
				Energy:        95,
				Hunger:        70,
				Affection:     88,
				Mood:          "wise",
				MoodAura:      companion.AuraForPersonality("wise"),
				Outfit:        "Golden Crown",
				CoinsEarned:   234,
				TotalChats:    892,
				LastFed:       "1 hour ago",
				LastPetted:    "30 minutes ago",
				EmotionalBond: 90,
				Status:        "online",
				LastFeedTime:  now - 9*60*60*1000,
				LastPetTime:   now - 9*60*60*1000,
				LastDecayTime: now,
			},
		},
	}
}
