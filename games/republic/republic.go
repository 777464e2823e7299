/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package republic implements a four-seat politburo economy game. Two seats
// secretly serve the Republic and two secretly serve the Drow; everyone
// invests from a shared pot that has to fund the war each round.
package republic

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Seednode/happyhour/games"
)

type State string

const (
	Setup           State = "setup"
	InvestmentPhase State = "investment_phase"
	ResolutionPhase State = "resolution_phase"
	RoundEnd        State = "round_end"
	GameWonRepublic State = "game_won_republic"
	GameWonDrow     State = "game_won_drow"
)

const (
	NumPlayers          = 4
	MaxRounds           = 10
	MaxWarFailures      = 3
	BaseSalary          = 2
	ImprovementCost     = 7
	MaxImprovementLevel = 4
	TaxCost             = 1
	TaxEffect           = 2
	PowderChargeCost    = 12
	AzroksDaggerCost    = 14
)

const (
	RoleBrother = "Brother of the Republic"
	RoleAgent   = "Agent of the Drow"
)

var Sectors = [NumPlayers]string{"Teachers", "Builders", "Miners", "Military"}

// Fruits of Labor multipliers, in tenths.
var fruitsOfLabor = []int{15, 15, 15, 20, 20, 20, 25, 25, 30, 30}

type Game struct {
	rng *rand.Rand

	state State
	round int

	roles       [NumPlayers]string
	money       [NumPlayers]int
	improvement [NumPlayers]int
	secretary   int

	turnOrder []int
	turn      int
	taxed     [NumPlayers]bool

	pot         int
	warFailures int

	fruits     []int
	lastFruits int
}

// New deals roles, picks the general secretary and shuffles the Fruits of
// Labor deck. A nil rng is replaced with one seeded from crypto/rand.
func New(players int, rng *rand.Rand) (*Game, error) {
	if players != NumPlayers {
		return nil, fmt.Errorf("azrok's republic requires exactly %d players, got %d", NumPlayers, players)
	}

	if rng == nil {
		rng = games.NewRand()
	}

	g := &Game{
		rng:   rng,
		state: Setup,
	}

	roles := []string{RoleBrother, RoleBrother, RoleAgent, RoleAgent}
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	copy(g.roles[:], roles)

	for i := range g.improvement {
		g.improvement[i] = 1
	}

	g.secretary = rng.IntN(NumPlayers)

	g.fruits = slices.Clone(fruitsOfLabor)
	rng.Shuffle(len(g.fruits), func(i, j int) {
		g.fruits[i], g.fruits[j] = g.fruits[j], g.fruits[i]
	})

	return g, nil
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Pot() int {
	return g.pot
}

func (g *Game) Money(slot int) int {
	if !validSlot(slot) {
		return 0
	}

	return g.money[slot]
}

func (g *Game) Role(slot int) string {
	if !validSlot(slot) {
		return ""
	}

	return g.roles[slot]
}

func (g *Game) Over() bool {
	return g.state == GameWonRepublic || g.state == GameWonDrow
}

// WarCost is the amount the pot must cover at the end of the current round.
func (g *Game) WarCost() int {
	switch {
	case g.round <= 3:
		return 1 * NumPlayers
	case g.round <= 6:
		return 2 * NumPlayers
	default:
		return 3 * NumPlayers
	}
}

// CurrentPlayer returns the slot whose turn it is during the investment phase.
func (g *Game) CurrentPlayer() (int, bool) {
	if g.state != InvestmentPhase || g.turn >= len(g.turnOrder) {
		return 0, false
	}

	return g.turnOrder[g.turn], true
}

func (g *Game) salary(slot int) int {
	return BaseSalary * g.improvement[slot]
}

// StartRound pays salaries and rolls for the round's turn order.
func (g *Game) StartRound() games.Result {
	if g.Over() {
		return games.Fail(games.ReasonGameOver)
	}
	if g.state != Setup && g.state != RoundEnd {
		return games.Fail("Cannot start a new round now")
	}

	g.round++

	out := RoundStart{Round: g.round, Salaries: make(map[int]int, NumPlayers)}
	for slot := range NumPlayers {
		pay := g.salary(slot)
		g.money[slot] += pay
		out.Salaries[slot] = pay
	}

	// the secretary is position one, seats follow clockwise; the roll
	// picks which position opens the round
	out.DiceRoll = g.rng.IntN(NumPlayers) + 1
	g.turnOrder = make([]int, 0, NumPlayers)
	for i := range NumPlayers {
		g.turnOrder = append(g.turnOrder, (g.secretary+out.DiceRoll-1+i)%NumPlayers)
	}
	out.TurnOrder = slices.Clone(g.turnOrder)
	out.WarCost = g.WarCost()

	g.turn = 0
	g.taxed = [NumPlayers]bool{}
	g.state = InvestmentPhase

	return games.Succeed(fmt.Sprintf("Round %d started. Salaries paid.", g.round), out)
}

func (g *Game) Apply(slot int, a games.Action) games.Result {
	switch a.Kind {
	case "invest_people":
		return g.InvestPeople(slot, a.Amount)
	case "invest_improvement":
		return g.InvestImprovement(slot)
	case "use_tax":
		return g.UseTax(slot, a.Target)
	case "buy_powder_charge":
		return g.BuyPowderCharge(slot)
	case "buy_azroks_dagger":
		return g.BuyAzroksDagger(slot)
	case "end_turn":
		return g.EndTurn(slot)
	case "resolve_round":
		return g.ResolveRound()
	}

	return games.Fail("Unknown action: %s", a.Kind)
}

// checkTurn reports why slot may not act now, or "" when it may.
func (g *Game) checkTurn(slot int) string {
	if g.Over() {
		return games.ReasonGameOver
	}
	if g.state != InvestmentPhase {
		return "Not in investment phase"
	}
	if current, ok := g.CurrentPlayer(); !ok || current != slot {
		return "Not your turn"
	}

	return ""
}

func (g *Game) InvestPeople(slot, amount int) games.Result {
	if reason := g.checkTurn(slot); reason != "" {
		return games.Fail("%s", reason)
	}
	if amount <= 0 {
		return games.Fail("Amount must be positive")
	}
	if amount > g.money[slot] {
		return games.Fail("Not enough money")
	}

	g.money[slot] -= amount
	g.pot += amount

	return games.Succeed(fmt.Sprintf("Invested $%d into the People", amount),
		Investment{Amount: amount, Balance: g.money[slot], Pot: g.pot})
}

func (g *Game) InvestImprovement(slot int) games.Result {
	if reason := g.checkTurn(slot); reason != "" {
		return games.Fail("%s", reason)
	}
	if g.improvement[slot] >= MaxImprovementLevel {
		return games.Fail("Already at maximum improvement level")
	}
	if g.money[slot] < ImprovementCost {
		return games.Fail("Not enough money")
	}

	g.money[slot] -= ImprovementCost
	g.improvement[slot]++

	return games.Succeed(fmt.Sprintf("Improved labor tools to %dX", g.improvement[slot]),
		Improvement{Cost: ImprovementCost, Level: g.improvement[slot], Salary: g.salary(slot), Balance: g.money[slot]})
}

// UseTax charges the actor TaxCost to destroy up to TaxEffect of the target's
// money. An under-funded target loses only what it holds.
func (g *Game) UseTax(slot, target int) games.Result {
	if reason := g.checkTurn(slot); reason != "" {
		return games.Fail("%s", reason)
	}
	if g.taxed[slot] {
		return games.Fail("Already used tax this turn")
	}
	if slot == target {
		return games.Fail("Cannot tax yourself")
	}
	if !validSlot(target) {
		return games.Fail("Invalid target player")
	}
	if g.money[slot] < TaxCost {
		return games.Fail("Not enough money to tax")
	}

	g.money[slot] -= TaxCost
	amount := min(TaxEffect, g.money[target])
	g.money[target] -= amount
	g.taxed[slot] = true

	return games.Succeed(fmt.Sprintf("Taxed player %d for $%d", target, amount),
		Tax{Target: target, Cost: TaxCost, Transferred: amount, TargetBalance: g.money[target]})
}

func (g *Game) BuyPowderCharge(slot int) games.Result {
	if reason := g.checkTurn(slot); reason != "" {
		return games.Fail("%s", reason)
	}
	if g.money[slot] < PowderChargeCost {
		return games.Fail("Not enough money")
	}

	g.money[slot] -= PowderChargeCost
	g.warFailures++

	out := Purchase{Cost: PowderChargeCost, WarFailures: g.warFailures}
	if g.warFailures >= MaxWarFailures {
		g.state = GameWonDrow
		out.GameOver, out.Winner = true, "drow"

		return games.Succeed("Powder charge detonated! The Drow overcome the Republic!", out)
	}

	return games.Succeed(fmt.Sprintf("Powder charge detonated! Drow victories: %d/%d", g.warFailures, MaxWarFailures), out)
}

func (g *Game) BuyAzroksDagger(slot int) games.Result {
	if reason := g.checkTurn(slot); reason != "" {
		return games.Fail("%s", reason)
	}
	if g.money[slot] < AzroksDaggerCost {
		return games.Fail("Not enough money")
	}

	g.money[slot] -= AzroksDaggerCost
	g.state = GameWonRepublic

	return games.Succeed("Azrok's Dagger recovered! The Republic wins!",
		Purchase{Cost: AzroksDaggerCost, WarFailures: g.warFailures, GameOver: true, Winner: "republic"})
}

func (g *Game) EndTurn(slot int) games.Result {
	if reason := g.checkTurn(slot); reason != "" {
		return games.Fail("%s", reason)
	}

	g.turn++
	if g.turn >= len(g.turnOrder) {
		g.state = ResolutionPhase

		return games.Succeed("All players done. Ready for resolution.", nil)
	}

	return games.Succeed(fmt.Sprintf("Turn ended. Player %d's turn.", g.turnOrder[g.turn]), nil)
}

// ResolveRound funds the war from the pot, multiplies what is left and pays
// it out evenly. Any remainder stays in the pot.
func (g *Game) ResolveRound() games.Result {
	if g.Over() {
		return games.Fail(games.ReasonGameOver)
	}
	if g.state != ResolutionPhase {
		return games.Fail("Not in resolution phase")
	}

	out := Resolution{WarCost: g.WarCost()}

	if g.pot >= out.WarCost {
		g.pot -= out.WarCost
		out.WarFunded = true
	} else {
		g.pot = 0
		g.warFailures++
	}
	out.WarFailures = g.warFailures

	if g.warFailures >= MaxWarFailures {
		g.state = GameWonDrow
		out.GameOver, out.Winner = true, "drow"

		return games.Succeed("The war effort collapsed! The Drow win!", out)
	}

	m := g.drawFruits()
	out.Multiplier = float64(m) / 10
	out.PotBefore = g.pot

	// ceil(pot * m / 10)
	g.pot = (g.pot*m + 9) / 10
	out.PotAfterMultiply = g.pot

	out.Share = g.pot / NumPlayers
	out.Remainder = g.pot - out.Share*NumPlayers
	for slot := range NumPlayers {
		g.money[slot] += out.Share
	}
	g.pot = out.Remainder

	if g.round >= MaxRounds {
		g.state = GameWonRepublic
		out.GameOver, out.Winner = true, "republic"

		return games.Succeed("The Republic endured every round and wins!", out)
	}

	g.state = RoundEnd

	msg := fmt.Sprintf("Round %d resolved: each player receives $%d.", g.round, out.Share)
	if !out.WarFunded {
		msg = fmt.Sprintf("Round %d resolved: the war went unfunded (%d/%d).", g.round, g.warFailures, MaxWarFailures)
	}

	return games.Succeed(msg, out)
}

// drawFruits takes the next multiplier, falling back to the smallest card
// once the deck is exhausted.
func (g *Game) drawFruits() int {
	if len(g.fruits) == 0 {
		g.lastFruits = slices.Min(fruitsOfLabor)

		return g.lastFruits
	}

	g.lastFruits = g.fruits[0]
	g.fruits = g.fruits[1:]

	return g.lastFruits
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < NumPlayers
}
