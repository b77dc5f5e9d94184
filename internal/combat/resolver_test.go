package combat

import (
	"iter"
	"testing"

	"github.com/samdwyer/skirmish/internal/gamedata"
	"github.com/samdwyer/skirmish/internal/world"
)

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	name      string
	class     gamedata.ClassID
	team      string
	hp        int
	defending bool
}

func newMockCombatant(name string, class gamedata.ClassID, team string) *mockCombatant {
	return &mockCombatant{name: name, class: class, team: team, hp: 100}
}

func (m *mockCombatant) GetName() string           { return m.name }
func (m *mockCombatant) ClassID() gamedata.ClassID { return m.class }
func (m *mockCombatant) Team() string              { return m.team }
func (m *mockCombatant) IsAlive() bool             { return m.hp > 0 }
func (m *mockCombatant) GetHP() int                { return m.hp }
func (m *mockCombatant) IsDefending() bool         { return m.defending }
func (m *mockCombatant) TakeDamage(amount int) int { m.hp -= amount; return m.hp }
func (m *mockCombatant) ConsumeDefend() bool {
	was := m.defending
	m.defending = false
	return was
}

// mockBoard places combatants on an unbounded plane.
type mockBoard map[world.Position]Combatant

func (b mockBoard) Footprint(center world.Position) iter.Seq[world.Position] {
	return func(yield func(world.Position) bool) {
		for _, p := range world.PlusFootprint(center) {
			if !yield(p) {
				return
			}
		}
	}
}

func (b mockBoard) CombatantAt(pos world.Position) (Combatant, bool) {
	c, ok := b[pos]
	return c, ok
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	matchups, err := gamedata.LoadMatchups()
	if err != nil {
		t.Fatalf("LoadMatchups: %v", err)
	}
	return NewResolver(matchups)
}

func TestComputeDamageMatchups(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		attacker gamedata.ClassID
		defender gamedata.ClassID
		base     int
		want     int
	}{
		{gamedata.ClassWarrior, gamedata.ClassArcher, 50, 60},
		{gamedata.ClassWarrior, gamedata.ClassMage, 50, 40},
		{gamedata.ClassWarrior, gamedata.ClassWarrior, 50, 50},
		{gamedata.ClassArcher, gamedata.ClassMage, 30, 36},
		{gamedata.ClassArcher, gamedata.ClassWarrior, 30, 24},
		{gamedata.ClassMage, gamedata.ClassWarrior, 30, 36},
		{gamedata.ClassMage, gamedata.ClassArcher, 30, 24},
		{gamedata.ClassMage, gamedata.ClassWarrior, 25, 30},
		{gamedata.ClassMage, gamedata.ClassArcher, 25, 20},
		{gamedata.ClassArcher, gamedata.ClassWarrior, 16, 12}, // 12.8 floors
		{gamedata.ClassMage, gamedata.ClassMage, 0, 0},
	}

	for _, tt := range tests {
		a := newMockCombatant("a", tt.attacker, "player1")
		d := newMockCombatant("d", tt.defender, "player2")
		if got := r.ComputeDamage(a, d, tt.base); got != tt.want {
			t.Errorf("ComputeDamage(%s, %s, %d) = %d, want %d", tt.attacker, tt.defender, tt.base, got, tt.want)
		}
		if d.hp != 100 {
			t.Errorf("ComputeDamage changed HP to %d", d.hp)
		}
	}
}

func TestComputeDamageIsIdempotent(t *testing.T) {
	r := newTestResolver(t)
	a := newMockCombatant("a", gamedata.ClassArcher, "player1")
	d := newMockCombatant("d", gamedata.ClassMage, "player2")

	first := r.ComputeDamage(a, d, 30)
	for i := 0; i < 5; i++ {
		if got := r.ComputeDamage(a, d, 30); got != first {
			t.Fatalf("call %d = %d, want %d", i, got, first)
		}
	}
}

func TestComputeDamageDefendIsConsumedOnce(t *testing.T) {
	r := newTestResolver(t)
	archer := newMockCombatant("archer", gamedata.ClassArcher, "player1")
	warrior := newMockCombatant("warrior", gamedata.ClassWarrior, "player2")
	warrior.defending = true

	// 30 halves to 15, then archer vs warrior is 80%.
	if got := r.ComputeDamage(archer, warrior, 30); got != 12 {
		t.Errorf("defended hit = %d, want 12", got)
	}
	if warrior.defending {
		t.Error("defend stance should be cleared after one hit")
	}
	if got := r.ComputeDamage(archer, warrior, 30); got != 24 {
		t.Errorf("next hit = %d, want 24", got)
	}
}

func TestComputeDamageDefendHalvesBeforeMultiplier(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		attacker gamedata.ClassID
		defender gamedata.ClassID
		base     int
		want     int
	}{
		{gamedata.ClassWarrior, gamedata.ClassWarrior, 30, 15},
		{gamedata.ClassWarrior, gamedata.ClassArcher, 50, 30},
		{gamedata.ClassMage, gamedata.ClassWarrior, 25, 14}, // 12 * 1.2 = 14.4
		{gamedata.ClassWarrior, gamedata.ClassWarrior, 1, 0},
	}

	for _, tt := range tests {
		a := newMockCombatant("a", tt.attacker, "player1")
		d := newMockCombatant("d", tt.defender, "player2")
		d.defending = true
		if got := r.ComputeDamage(a, d, tt.base); got != tt.want {
			t.Errorf("defended ComputeDamage(%s, %s, %d) = %d, want %d", tt.attacker, tt.defender, tt.base, got, tt.want)
		}
	}
}

func TestStrikeAppliesDamage(t *testing.T) {
	r := newTestResolver(t)
	warrior := newMockCombatant("warrior", gamedata.ClassWarrior, "player1")
	archer := newMockCombatant("archer", gamedata.ClassArcher, "player2")

	hit := r.Strike(warrior, archer, 50)
	if hit.Damage != 60 || hit.HP != 40 || archer.hp != 40 {
		t.Errorf("Strike = %+v (archer hp %d), want damage 60 hp 40", hit, archer.hp)
	}
	if hit.Defended {
		t.Error("Defended should be false")
	}
}

func TestSplitDamage(t *testing.T) {
	tests := []struct {
		total, n, want int
	}{
		{50, 1, 50},
		{50, 2, 25},
		{50, 3, 16},
		{50, 4, 12},
		{50, 5, 10},
		{50, 0, 0},
		{0, 3, 0},
	}

	for _, tt := range tests {
		got := SplitDamage(tt.total, tt.n)
		if got != tt.want {
			t.Errorf("SplitDamage(%d, %d) = %d, want %d", tt.total, tt.n, got, tt.want)
		}
		if tt.n > 0 && got*tt.n > tt.total {
			t.Errorf("SplitDamage(%d, %d) overspends: %d", tt.total, tt.n, got*tt.n)
		}
	}
}

func TestResolveAreaEffectTwoVictims(t *testing.T) {
	r := newTestResolver(t)
	mage := newMockCombatant("mage", gamedata.ClassMage, "player1")
	m1 := newMockCombatant("m1", gamedata.ClassMage, "player2")
	m2 := newMockCombatant("m2", gamedata.ClassMage, "player2")

	center := world.Pos(5, 3)
	board := mockBoard{
		world.Pos(1, 1): mage,
		center:          m1,
		world.Pos(5, 2): m2,
	}

	hits := r.ResolveAreaEffect(mage, center, 50, board)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if h.Damage != 25 {
			t.Errorf("%s took %d, want 25", h.Target.GetName(), h.Damage)
		}
	}
	if m1.hp != 75 || m2.hp != 75 {
		t.Errorf("HP = %d/%d, want 75/75", m1.hp, m2.hp)
	}
}

func TestResolveAreaEffectSkipsAllies(t *testing.T) {
	r := newTestResolver(t)
	mage := newMockCombatant("mage", gamedata.ClassMage, "player1")
	ally := newMockCombatant("ally", gamedata.ClassWarrior, "player1")
	enemy := newMockCombatant("enemy", gamedata.ClassWarrior, "player2")

	center := world.Pos(4, 4)
	board := mockBoard{
		center:          ally,
		world.Pos(4, 5): enemy,
	}

	hits := r.ResolveAreaEffect(mage, center, 50, board)
	if len(hits) != 1 || hits[0].Target != enemy {
		t.Fatalf("hits = %+v, want only the enemy", hits)
	}
	// Whole 50 goes to the single victim, mage vs warrior is 120%.
	if enemy.hp != 40 {
		t.Errorf("enemy hp = %d, want 40", enemy.hp)
	}
	if ally.hp != 100 {
		t.Errorf("ally hp = %d, want 100", ally.hp)
	}
}

func TestResolveAreaEffectNoVictims(t *testing.T) {
	r := newTestResolver(t)
	mage := newMockCombatant("mage", gamedata.ClassMage, "player1")

	if hits := r.ResolveAreaEffect(mage, world.Pos(0, 0), 50, mockBoard{}); hits != nil {
		t.Errorf("hits = %+v, want nil", hits)
	}
}

func TestResolveAreaEffectTotalNeverExceedsBudget(t *testing.T) {
	r := newTestResolver(t)
	mage := newMockCombatant("mage", gamedata.ClassMage, "player1")

	center := world.Pos(5, 5)
	board := mockBoard{}
	cells := world.PlusFootprint(center)
	for _, p := range cells[:3] {
		board[p] = newMockCombatant(p.String(), gamedata.ClassMage, "player2")
	}

	hits := r.ResolveAreaEffect(mage, center, 50, board)
	total := 0
	for _, h := range hits {
		total += h.Damage
	}
	if total != 3*16 {
		t.Errorf("total damage = %d, want %d", total, 3*16)
	}
}

func TestMatchup(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		attacker, defender gamedata.ClassID
		want               Matchup
	}{
		{gamedata.ClassWarrior, gamedata.ClassArcher, Advantage},
		{gamedata.ClassArcher, gamedata.ClassMage, Advantage},
		{gamedata.ClassMage, gamedata.ClassWarrior, Advantage},
		{gamedata.ClassArcher, gamedata.ClassWarrior, Disadvantage},
		{gamedata.ClassMage, gamedata.ClassMage, Neutral},
	}

	for _, tt := range tests {
		if got := r.Matchup(tt.attacker, tt.defender); got != tt.want {
			t.Errorf("Matchup(%s, %s) = %s, want %s", tt.attacker, tt.defender, got, tt.want)
		}
	}
}
