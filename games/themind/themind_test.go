package themind

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/Seednode/happyhour/games"
)

func newTestGame(t *testing.T, players int) *Game {
	t.Helper()

	g, err := New(players, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("New(%d) returned error: %v", players, err)
	}

	if res := g.StartRound(); !res.OK() {
		t.Fatalf("StartRound failed: %s", res.Message())
	}

	return g
}

// cardCount checks the closed-system accounting invariant.
func cardCount(t *testing.T, g *Game) {
	t.Helper()

	held := 0
	for _, hand := range g.hands {
		held += len(hand)
	}

	total := len(g.pile) + len(g.discarded) + held
	if want := g.level * g.players; total != want {
		t.Fatalf("card accounting broken: pile=%d discarded=%d held=%d, want total %d",
			len(g.pile), len(g.discarded), held, want)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		players int
		lives   int
		wantErr bool
	}{
		{1, 0, true},
		{2, 2, false},
		{3, 3, false},
		{4, 4, false},
		{5, 0, true},
	}

	for _, tt := range tests {
		g, err := New(tt.players, nil)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%d): expected error", tt.players)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%d): unexpected error %v", tt.players, err)
		}
		if g.State() != Setup {
			t.Errorf("expected setup state, got %s", g.State())
		}
		if g.Lives() != tt.lives {
			t.Errorf("New(%d): expected %d lives, got %d", tt.players, tt.lives, g.Lives())
		}
		if g.stars != 1 {
			t.Errorf("New(%d): expected 1 throwing star, got %d", tt.players, g.stars)
		}
	}
}

func TestStartRound_Deals(t *testing.T) {
	g := newTestGame(t, 3)

	if g.State() != InProgress {
		t.Fatalf("expected in_progress, got %s", g.State())
	}
	if g.Level() != 1 {
		t.Fatalf("expected level 1, got %d", g.Level())
	}

	seen := map[int]bool{}
	for slot := range 3 {
		hand := g.Hand(slot)
		if len(hand) != 1 {
			t.Errorf("slot %d: expected 1 card, got %d", slot, len(hand))
		}
		for _, c := range hand {
			if c < CardMin || c > CardMax {
				t.Errorf("card %d out of range", c)
			}
			if seen[c] {
				t.Errorf("card %d dealt twice", c)
			}
			seen[c] = true
		}
	}
	cardCount(t, g)

	if res := g.StartRound(); res.OK() {
		t.Error("expected StartRound to fail while a level is in progress")
	}
}

func TestPlayCard_InOrder(t *testing.T) {
	g := newTestGame(t, 2)
	g.level = 2
	g.hands = [][]int{{10, 50}, {20, 60}}

	for _, step := range []struct{ slot, card int }{{0, 10}, {1, 20}} {
		res := g.PlayCard(step.slot, step.card)
		if !res.OK() {
			t.Fatalf("play %d failed: %s", step.card, res.Message())
		}
	}

	if !slices.Equal(g.pile, []int{10, 20}) {
		t.Errorf("expected pile [10 20], got %v", g.pile)
	}
	if g.Lives() != 2 {
		t.Errorf("expected no lives lost, got %d", g.Lives())
	}
	cardCount(t, g)
}

func TestPlayCard_SkipDetection(t *testing.T) {
	g := newTestGame(t, 2)
	g.hands = [][]int{{30}, {20}}

	res := g.PlayCard(0, 30)
	if !res.OK() {
		t.Fatalf("expected legal play to succeed, got %q", res.Message())
	}

	play, ok := res.Details().(CardPlay)
	if !ok {
		t.Fatalf("expected CardPlay details, got %T", res.Details())
	}
	if !slices.Equal(play.Skipped, []int{20}) {
		t.Errorf("expected 20 skipped, got %v", play.Skipped)
	}
	if !play.LifeLost {
		t.Error("expected skip to cost a life")
	}
	if g.Lives() != 1 {
		t.Errorf("expected exactly one life lost, got %d lives", g.Lives())
	}
	if len(g.Hand(0)) != 0 || len(g.Hand(1)) != 0 {
		t.Errorf("expected both hands empty, got %v and %v", g.Hand(0), g.Hand(1))
	}
	if !slices.Contains(g.discarded, 20) {
		t.Errorf("expected 20 in discard, got %v", g.discarded)
	}
	cardCount(t, g)
}

func TestPlayCard_NoFalseSkip(t *testing.T) {
	g := newTestGame(t, 2)
	g.hands = [][]int{{10}, {50}}

	res := g.PlayCard(0, 10)
	if !res.OK() {
		t.Fatalf("play failed: %s", res.Message())
	}
	if g.Lives() != 2 {
		t.Errorf("expected no lives lost, got %d", g.Lives())
	}
	if len(g.discarded) != 0 {
		t.Errorf("expected nothing discarded, got %v", g.discarded)
	}
	if !slices.Equal(g.Hand(1), []int{50}) {
		t.Errorf("expected slot 1 to keep 50, got %v", g.Hand(1))
	}
}

func TestPlayCard_OutOfOrder(t *testing.T) {
	g := newTestGame(t, 3)
	g.level = 3
	g.pile = []int{30}
	g.hands = [][]int{{5, 40, 90}, {8, 12, 70}, {60, 80}}
	cardCount(t, g)
	lives := g.Lives()

	res := g.PlayCard(1, 8)
	if res.OK() {
		t.Fatal("expected out-of-order play to fail")
	}
	if res.Details() != nil {
		t.Error("failed result must not expose details")
	}
	if g.Lives() != lives-1 {
		t.Errorf("expected one life lost, got %d -> %d", lives, g.Lives())
	}
	if !slices.Equal(g.Hand(1), []int{8, 70}) {
		t.Errorf("expected slot 1 to keep 8 and lose 12, got %v", g.Hand(1))
	}
	if !slices.Equal(g.discarded, []int{12}) {
		t.Errorf("expected only 12 discarded, got %v", g.discarded)
	}
	if !slices.Equal(g.Hand(0), []int{5, 40, 90}) {
		t.Errorf("expected slot 0 untouched, got %v", g.Hand(0))
	}
	if !slices.Equal(g.pile, []int{30}) {
		t.Errorf("expected pile unchanged, got %v", g.pile)
	}
	cardCount(t, g)

	// a repeat failure also leaves the card in hand
	if res := g.PlayCard(0, 5); res.OK() || !slices.Equal(g.Hand(0), []int{5, 40, 90}) {
		t.Errorf("expected 5 to fail and stay in hand, got %q %v", res.Message(), g.Hand(0))
	}
}

func TestPlayCard_Rejections(t *testing.T) {
	g := newTestGame(t, 2)
	g.hands = [][]int{{10}, {20}}

	tests := []struct {
		name string
		slot int
		card int
	}{
		{"card not in hand", 0, 20},
		{"invalid slot", 5, 10},
		{"negative slot", -1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.PublicView()
			if res := g.PlayCard(tt.slot, tt.card); res.OK() {
				t.Fatal("expected failure")
			}
			after := g.PublicView().(PublicState)
			if after.Lives != before.(PublicState).Lives || len(after.PlayedPile) != 0 {
				t.Error("rejected play mutated state")
			}
		})
	}

	if res := g.Apply(0, games.Action{Kind: "shuffle"}); res.OK() {
		t.Error("expected unknown action to fail")
	}
}

func TestUseStar(t *testing.T) {
	g := newTestGame(t, 2)
	g.level = 2
	g.hands = [][]int{{10, 50}, {20, 60}}
	lives := g.Lives()

	res := g.UseStar()
	if !res.OK() {
		t.Fatalf("UseStar failed: %s", res.Message())
	}

	use := res.Details().(StarUse)
	if use.Discarded[0] != 10 || use.Discarded[1] != 20 {
		t.Errorf("expected lowest cards discarded, got %v", use.Discarded)
	}
	if !slices.Equal(g.Hand(0), []int{50}) || !slices.Equal(g.Hand(1), []int{60}) {
		t.Errorf("unexpected hands %v %v", g.Hand(0), g.Hand(1))
	}
	if g.Lives() != lives {
		t.Error("throwing star must not cost lives")
	}
	cardCount(t, g)

	if res := g.UseStar(); res.OK() {
		t.Error("expected failure with no stars left")
	}
}

func TestUseStar_CompletesLevel(t *testing.T) {
	g := newTestGame(t, 2)
	g.hands = [][]int{{10}, {}}
	g.pile = []int{5}

	res := g.UseStar()
	if !res.OK() {
		t.Fatalf("UseStar failed: %s", res.Message())
	}
	if g.State() != LevelComplete {
		t.Errorf("expected level_complete, got %s", g.State())
	}
}

func TestLevelCompletion(t *testing.T) {
	g := newTestGame(t, 2)
	g.hands = [][]int{{10}, {20}}

	g.PlayCard(0, 10)
	g.PlayCard(1, 20)

	if g.State() != LevelComplete {
		t.Fatalf("expected level_complete, got %s", g.State())
	}
	cardCount(t, g)

	if res := g.StartRound(); !res.OK() {
		t.Fatalf("StartRound for level 2 failed: %s", res.Message())
	}
	if g.Level() != 2 {
		t.Errorf("expected level 2, got %d", g.Level())
	}
	for slot := range 2 {
		if len(g.Hand(slot)) != 2 {
			t.Errorf("slot %d: expected 2 cards, got %d", slot, len(g.Hand(slot)))
		}
	}
	cardCount(t, g)
}

func TestGameWon(t *testing.T) {
	g := newTestGame(t, 2)
	g.level = MaxLevels
	g.hands = [][]int{{10}, {20}}
	g.pile = nil
	g.discarded = make([]int, MaxLevels*2-2)

	g.PlayCard(0, 10)
	g.PlayCard(1, 20)

	if g.State() != GameWon {
		t.Fatalf("expected game_won, got %s", g.State())
	}
	if !g.Over() {
		t.Error("expected Over() after winning")
	}
	if res := g.StartRound(); res.OK() || res.Message() != games.ReasonGameOver {
		t.Errorf("expected game over rejection, got %q", res.Message())
	}
}

func TestGameLost(t *testing.T) {
	g := newTestGame(t, 2)
	g.lives = 1
	g.level = 2
	g.hands = [][]int{{5, 40}, {30, 70}}
	g.pile = nil

	// the skip of 5 and 30 takes the last life even though 40 was legal
	res := g.PlayCard(0, 40)
	if !res.OK() {
		t.Fatalf("expected the play itself to succeed, got %q", res.Message())
	}
	if g.State() != GameLost {
		t.Fatalf("expected game_lost, got %s", g.State())
	}
	if g.Lives() != 0 {
		t.Errorf("expected 0 lives, got %d", g.Lives())
	}

	for _, a := range []games.Action{{Kind: "play_card", Card: 70}, {Kind: "use_star"}} {
		if res := g.Apply(1, a); res.OK() || res.Message() != games.ReasonGameOver {
			t.Errorf("%s after loss: expected game over, got %q", a.Kind, res.Message())
		}
	}

	// views remain available
	if v := g.PublicView().(PublicState); v.State != GameLost {
		t.Errorf("expected public view to report game_lost, got %s", v.State)
	}
	_ = g.PrivateView(0)
}

func TestLossOverridesLevelCompletion(t *testing.T) {
	g := newTestGame(t, 2)
	g.lives = 1
	g.hands = [][]int{{30}, {20}}

	g.PlayCard(0, 30)

	if g.State() != GameLost {
		t.Errorf("expected game_lost to override level completion, got %s", g.State())
	}
}

func TestCardAccountingUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := range 50 {
		g, _ := New(2+trial%3, rand.New(rand.NewPCG(uint64(trial), 3)))
		g.StartRound()

		for step := 0; step < 500 && !g.Over(); step++ {
			cardCount(t, g)

			if g.State() == LevelComplete {
				g.StartRound()
				continue
			}

			slot := rng.IntN(g.players)
			hand := g.Hand(slot)
			switch {
			case rng.IntN(20) == 0:
				g.UseStar()
			case len(hand) > 0:
				g.PlayCard(slot, hand[rng.IntN(len(hand))])
			}
		}
		cardCount(t, g)
	}
}

func TestViews(t *testing.T) {
	g := newTestGame(t, 2)
	g.hands = [][]int{{42}, {77}}

	pub := g.PublicView().(PublicState)
	if pub.CardsInPlay != 2 || !slices.Equal(pub.HandSizes, []int{1, 1}) {
		t.Errorf("unexpected public counts %+v", pub)
	}

	priv := g.PrivateView(1).(PrivateState)
	if priv.YourID != 1 || !slices.Equal(priv.YourHand, []int{77}) {
		t.Errorf("unexpected private view %+v", priv)
	}
}
