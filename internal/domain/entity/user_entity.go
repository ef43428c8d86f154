package entity

// User is the aggregate root for the companion domain. It is persisted
// as a single JSON snapshot per user and mutated only through the
// companion service.
//
// Invariants maintained by every mutation:
//   - CuddleCoins >= 0
//   - TotalPets == len(Pets)
//   - Level == TotalPets/2 + 1
//   - CoinUpdateID strictly increases
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	JoinDate string `json:"joinDate"`

	TotalPets   int    `json:"totalPets"`
	CuddleCoins int    `json:"cuddleCoins"`
	Level       int    `json:"level"`
	IsNewUser   bool   `json:"isNewUser"`
	Pets        []*Pet `json:"pets"`

	// Change-detection fields mirrored from the persisted snapshot.
	CoinUpdateID int64 `json:"coinUpdateId"`
	LastUpdate   int64 `json:"lastUpdate"`
}

// FindPet returns the pet with the given id, or nil.
func (u *User) FindPet(id string) *Pet {
	for _, p := range u.Pets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RecalcLevel recomputes TotalPets and the derived user level.
func (u *User) RecalcLevel() {
	u.TotalPets = len(u.Pets)
	u.Level = u.TotalPets/2 + 1
}
