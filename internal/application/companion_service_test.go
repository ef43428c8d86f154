package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpet-ai/soulpet-api/internal/domain/companion"
	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
)

// memStore is an in-memory SnapshotStore for tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*entity.User)}
}

func (m *memStore) Load(ctx context.Context, userID string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return deepCopy(u), nil
}

func (m *memStore) Save(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = deepCopy(u)
	return nil
}

// deepCopy roundtrips through JSON, matching the real store's
// serialization behavior.
func deepCopy(u *entity.User) *entity.User {
	b, _ := json.Marshal(u)
	cp := &entity.User{}
	_ = json.Unmarshal(b, cp)
	return cp
}

func (m *memStore) Remove(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

func (m *memStore) UserIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestService() (*CompanionService, *memStore) {
	store := newMemStore()
	return NewCompanionService(store, nil, nil, nil, "", nil, ""), store
}

func TestRegisterGrantsWelcomeBonus(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), "new@example.com", "Newbie")
	require.NoError(t, err)

	assert.Equal(t, 10000, u.CuddleCoins)
	assert.Equal(t, 1, u.Level)
	assert.True(t, u.IsNewUser)
	assert.Empty(t, u.Pets)
	assert.Equal(t, 0, u.TotalPets)
}

func TestCompleteOnboarding(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	u, err = svc.CompleteOnboarding(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, u.IsNewUser)
}

func TestCreatePetChargesAndRefundsBonus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	u, pet, err := svc.CreatePet(ctx, u.ID, CreatePetInput{
		Name: "Sparkles", Type: "Unicorn", Personality: "gentle",
	})
	require.NoError(t, err)

	// 10000 - 10000 + 15
	assert.Equal(t, 15, u.CuddleCoins)
	assert.Equal(t, 1, u.TotalPets)
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, int64(1), u.CoinUpdateID)

	assert.Equal(t, "Sparkles", pet.Name)
	assert.Equal(t, 100, pet.Happiness)
	assert.Equal(t, 100, pet.Energy)
	assert.Equal(t, 80, pet.Hunger)
	assert.Equal(t, 50, pet.Affection)
	assert.Equal(t, 25, pet.EmotionalBond)
	assert.Equal(t, "excited", pet.Mood)
	assert.Equal(t, "Basic Collar", pet.Outfit)
	assert.Equal(t, "Never", pet.LastFed)
	assert.Equal(t, "Never", pet.LastPetted)
	assert.Zero(t, pet.LastFeedTime)
	assert.Zero(t, pet.LastPetTime)
	assert.NotZero(t, pet.LastDecayTime)
	assert.NotEmpty(t, pet.Image)
	assert.NotEmpty(t, pet.MoodAura)
}

func TestCreatePetDefaults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	_, pet, err := svc.CreatePet(ctx, u.ID, CreatePetInput{})
	require.NoError(t, err)

	assert.Equal(t, "Unnamed Pet", pet.Name)
	assert.Equal(t, "custom", pet.Type)
	assert.Equal(t, "playful", pet.Personality)
	assert.Equal(t, "cute", pet.Voice)
}

func TestCreatePetInsufficientCoins(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	_, _, err = svc.CreatePet(ctx, u.ID, CreatePetInput{Name: "One"})
	require.NoError(t, err)

	// Only 15 coins left now.
	_, _, err = svc.CreatePet(ctx, u.ID, CreatePetInput{Name: "Two"})
	assert.ErrorIs(t, err, ErrInsufficientCoins)
}

func TestLevelRisesEveryTwoPets(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	// Top up so multiple adoptions are affordable.
	stored, _ := store.Load(ctx, u.ID)
	stored.CuddleCoins = 100000
	require.NoError(t, store.Save(ctx, stored))

	for i := 0; i < 4; i++ {
		u, _, err = svc.CreatePet(ctx, u.ID, CreatePetInput{Name: "P"})
		require.NoError(t, err)
	}
	assert.Equal(t, 4, u.TotalPets)
	assert.Equal(t, 3, u.Level)
}

func TestAdjustCoinsClampsAtZero(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	u, err = svc.AdjustCoins(ctx, u.ID, -999999)
	require.NoError(t, err)
	assert.Equal(t, 0, u.CuddleCoins)
	assert.Equal(t, int64(1), u.CoinUpdateID)

	u, err = svc.AdjustCoins(ctx, u.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, u.CuddleCoins)
	assert.Equal(t, int64(2), u.CoinUpdateID)
}

func TestUpdatePetStatsMergesAndRestartsCooldowns(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)
	u, pet, err := svc.CreatePet(ctx, u.ID, CreatePetInput{Name: "Sparkles"})
	require.NoError(t, err)

	happiness := 42
	justNow := "Just now"
	u, err = svc.UpdatePetStats(ctx, u.ID, pet.ID, PetStatsUpdate{
		Happiness: &happiness,
		LastFed:   &justNow,
	})
	require.NoError(t, err)

	got := u.FindPet(pet.ID)
	require.NotNil(t, got)
	assert.Equal(t, 42, got.Happiness)
	assert.Equal(t, "Just now", got.LastFed)
	assert.NotZero(t, got.LastFeedTime)
	// Untouched fields survive the merge.
	assert.Equal(t, 80, got.Hunger)
	assert.Zero(t, got.LastPetTime)
}

func TestUpdatePetStatsClampsOutOfRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)
	u, pet, err := svc.CreatePet(ctx, u.ID, CreatePetInput{Name: "Sparkles"})
	require.NoError(t, err)

	happiness := 500
	energy := -50
	bond := 9001
	u, err = svc.UpdatePetStats(ctx, u.ID, pet.ID, PetStatsUpdate{
		Happiness:     &happiness,
		Energy:        &energy,
		EmotionalBond: &bond,
	})
	require.NoError(t, err)

	got := u.FindPet(pet.ID)
	require.NotNil(t, got)
	assert.Equal(t, 100, got.Happiness)
	assert.Equal(t, 0, got.Energy)
	assert.Equal(t, 100, got.EmotionalBond)
}

func TestUpdatePetStatsUnknownPet(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	_, err = svc.UpdatePetStats(ctx, u.ID, "nope", PetStatsUpdate{})
	assert.ErrorIs(t, err, ErrPetNotFound)
}

func TestBoostAllPets(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u := DemoProfile("demo@example.com")
	require.NoError(t, svc.Store.Save(ctx, u))

	u, err := svc.BoostAllPets(ctx, u.ID)
	require.NoError(t, err)

	for _, pet := range u.Pets {
		assert.Equal(t, 100, pet.Happiness)
		assert.Equal(t, 100, pet.Energy)
		assert.Equal(t, 100, pet.Hunger)
		assert.Equal(t, 100, pet.Affection)
		assert.Equal(t, "transcendent", pet.Mood)
		assert.Equal(t, "blessed", pet.Status)
		assert.Equal(t, "Just blessed with magical nourishment", pet.LastFed)
		assert.Equal(t, "Just received divine love", pet.LastPetted)
		assert.LessOrEqual(t, pet.EmotionalBond, 100)
	}
	// Fluffy's bond was 95; the +10 clamps at 100.
	assert.Equal(t, 100, u.Pets[0].EmotionalBond)
	assert.Equal(t, 100, u.Pets[1].EmotionalBond)
}

func TestBoostAllPetsNoPets(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	_, err = svc.BoostAllPets(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNoPets)
}

func TestFeedPetRewardsAndCooldown(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u := DemoProfile("demo@example.com")
	require.NoError(t, svc.Store.Save(ctx, u))

	fluffy := u.Pets[0] // fed 3h ago, feedable
	before := u.CuddleCoins

	u2, reward, err := svc.FeedPet(ctx, u.ID, fluffy.ID)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, reward, 15)
	assert.LessOrEqual(t, reward, 39)
	assert.Equal(t, before+reward, u2.CuddleCoins)

	got := u2.FindPet(fluffy.ID)
	assert.Equal(t, 95, got.Hunger) // 65+30
	assert.Equal(t, "grateful", got.Mood)
	assert.Equal(t, "Just now", got.LastFed)

	// Second feed hits the 8h cooldown.
	_, _, err = svc.FeedPet(ctx, u.ID, fluffy.ID)
	assert.ErrorIs(t, err, ErrFeedCooldown)
}

func TestPetPetRewardsAndCooldown(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u := DemoProfile("demo@example.com")
	require.NoError(t, svc.Store.Save(ctx, u))

	fluffy := u.Pets[0] // petted 1h ago, still cooling down
	draco := u.Pets[1]  // petted 9h ago, pettable

	_, _, err := svc.PetPet(ctx, u.ID, fluffy.ID)
	assert.ErrorIs(t, err, ErrPetCooldown)

	u2, reward, err := svc.PetPet(ctx, u.ID, draco.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reward, 10)
	assert.LessOrEqual(t, reward, 29)

	got := u2.FindPet(draco.ID)
	assert.Equal(t, "loved", got.Mood)
	assert.Equal(t, "Just now", got.LastPetted)
	assert.Equal(t, 100, got.Energy) // 95+8 clamped
}

func TestRecordChatRewards(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u := DemoProfile("demo@example.com")
	require.NoError(t, svc.Store.Save(ctx, u))
	fluffy := u.Pets[0]
	chatsBefore := fluffy.TotalChats

	u2, reward, err := svc.RecordChat(ctx, u.ID, fluffy.ID, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reward, 5)
	assert.LessOrEqual(t, reward, 14)
	assert.Equal(t, chatsBefore+1, u2.FindPet(fluffy.ID).TotalChats)

	bondAfterText := u2.FindPet(fluffy.ID).EmotionalBond

	u3, reward, err := svc.RecordChat(ctx, u.ID, fluffy.ID, true)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reward, 10)
	assert.LessOrEqual(t, reward, 24)
	// Voice chats count toward totalChats too, and bond faster.
	assert.Equal(t, chatsBefore+2, u3.FindPet(fluffy.ID).TotalChats)
	assert.Equal(t, companion.Clamp100(bondAfterText+2), u3.FindPet(fluffy.ID).EmotionalBond)
}

func TestPurchaseItemBlessesRoster(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u := DemoProfile("demo@example.com")
	require.NoError(t, svc.Store.Save(ctx, u))
	before := u.CuddleCoins

	u2, err := svc.PurchaseItem(ctx, u.ID, "Celestial Crown", 5000)
	require.NoError(t, err)

	assert.Equal(t, before-5000, u2.CuddleCoins)
	for _, pet := range u2.Pets {
		assert.Equal(t, "Celestial Crown", pet.Outfit)
		assert.Equal(t, "blessed", pet.Status)
		assert.Equal(t, 100, pet.Happiness)
	}
}

func TestPurchaseItemInsufficientCoins(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)

	_, err = svc.PurchaseItem(ctx, u.ID, "Celestial Crown", 999999)
	assert.ErrorIs(t, err, ErrInsufficientCoins)
}

func TestBootstrapCatchesUpDecay(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	u := DemoProfile("demo@example.com")
	// Away for slightly over two decay intervals.
	for _, pet := range u.Pets {
		pet.LastDecayTime = time.Now().UnixMilli() - 61*60*1000
	}
	require.NoError(t, store.Save(ctx, u))

	got, err := svc.Bootstrap(ctx, u.ID)
	require.NoError(t, err)

	fluffy := got.Pets[0]
	assert.Equal(t, 82, fluffy.Happiness) // 92 - 2*5
	assert.Equal(t, 55, fluffy.Hunger)    // 65 - 2*5

	// The caught-up state was persisted.
	stored, _ := store.Load(ctx, u.ID)
	assert.Equal(t, 82, stored.Pets[0].Happiness)
}

func TestBootstrapUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Bootstrap(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var mu sync.Mutex
	var seen []int64
	cancel := svc.Subscribe(func(u *entity.User) {
		mu.Lock()
		seen = append(seen, u.CoinUpdateID)
		mu.Unlock()
	})

	u, err := svc.Register(ctx, "new@example.com", "Newbie")
	require.NoError(t, err)
	_, err = svc.AdjustCoins(ctx, u.ID, 10)
	require.NoError(t, err)

	mu.Lock()
	n := len(seen)
	mu.Unlock()
	assert.Equal(t, 2, n)

	cancel()
	_, err = svc.AdjustCoins(ctx, u.ID, 10)
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, n, len(seen), "no notifications after unsubscribe")
	mu.Unlock()
}

func TestDemoProfileShape(t *testing.T) {
	u := DemoProfile("ada@example.com")

	assert.Equal(t, "ada", u.Name)
	assert.Equal(t, 11247, u.CuddleCoins)
	assert.Equal(t, 15, u.Level)
	assert.False(t, u.IsNewUser)
	require.Len(t, u.Pets, 2)

	fluffy, draco := u.Pets[0], u.Pets[1]
	assert.Equal(t, "Fluffy", fluffy.Name)
	assert.Equal(t, "Cat", fluffy.Type)
	assert.Equal(t, "Draco", draco.Name)
	assert.Equal(t, "Dragon", draco.Type)

	now := time.Now().UnixMilli()
	// Fluffy can be fed but not petted; Draco can do both.
	assert.Less(t, now-fluffy.LastFeedTime, int64(4*60*60*1000))
	assert.Greater(t, now-draco.LastFeedTime, int64(8*60*60*1000))
}
