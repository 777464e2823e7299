/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package republic

import "slices"

type RoundStart struct {
	Round     int         `json:"round"`
	Salaries  map[int]int `json:"salaries"`
	DiceRoll  int         `json:"dice_roll"`
	TurnOrder []int       `json:"turn_order"`
	WarCost   int         `json:"war_cost"`
}

type Investment struct {
	Amount  int `json:"amount"`
	Balance int `json:"balance"`
	Pot     int `json:"pot"`
}

type Improvement struct {
	Cost    int `json:"cost"`
	Level   int `json:"level"`
	Salary  int `json:"salary"`
	Balance int `json:"balance"`
}

type Tax struct {
	Target        int `json:"target"`
	Cost          int `json:"cost"`
	Transferred   int `json:"transferred"`
	TargetBalance int `json:"target_balance"`
}

type Purchase struct {
	Cost        int    `json:"cost"`
	WarFailures int    `json:"war_failures"`
	GameOver    bool   `json:"game_over"`
	Winner      string `json:"winner,omitempty"`
}

type Resolution struct {
	WarCost          int     `json:"war_cost"`
	WarFunded        bool    `json:"war_funded"`
	WarFailures      int     `json:"war_failures"`
	Multiplier       float64 `json:"multiplier"`
	PotBefore        int     `json:"pot_before_multiply"`
	PotAfterMultiply int     `json:"pot_after_multiply"`
	Share            int     `json:"share"`
	Remainder        int     `json:"remainder"`
	GameOver         bool    `json:"game_over"`
	Winner           string  `json:"winner,omitempty"`
}

// PublicState is keyed by slot throughout. Roles stay empty until the game
// is over.
type PublicState struct {
	NumPlayers        int            `json:"num_players"`
	CurrentRound      int            `json:"current_round"`
	MaxRounds         int            `json:"max_rounds"`
	State             State          `json:"state"`
	PeoplePot         int            `json:"people_pot"`
	WarFailures       int            `json:"war_failures"`
	MaxWarFailures    int            `json:"max_war_failures"`
	WarCost           int            `json:"war_cost"`
	GeneralSecretary  int            `json:"general_secretary"`
	TurnOrder         []int          `json:"turn_order"`
	CurrentPlayer     *int           `json:"current_player"`
	Sectors           map[int]string `json:"sectors"`
	ImprovementLevels map[int]int    `json:"improvement_levels"`
	PlayerMoney       map[int]int    `json:"player_money"`
	Roles             map[int]string `json:"roles,omitempty"`
	FruitsRemaining   int            `json:"fruits_remaining"`
	LastMultiplier    float64        `json:"last_multiplier,omitempty"`
}

type PrivateState struct {
	YourID               int    `json:"your_id"`
	YourRole             string `json:"your_role"`
	YourSector           string `json:"your_sector"`
	YourMoney            int    `json:"your_money"`
	YourImprovementLevel int    `json:"your_improvement_level"`
	YourSalary           int    `json:"your_salary"`
}

// PublicView hides roles until the game is over.
func (g *Game) PublicView() any {
	order := slices.Clone(g.turnOrder)
	if order == nil {
		order = []int{}
	}

	view := PublicState{
		NumPlayers:        NumPlayers,
		CurrentRound:      g.round,
		MaxRounds:         MaxRounds,
		State:             g.state,
		PeoplePot:         g.pot,
		WarFailures:       g.warFailures,
		MaxWarFailures:    MaxWarFailures,
		GeneralSecretary:  g.secretary,
		TurnOrder:         order,
		Sectors:           make(map[int]string, NumPlayers),
		ImprovementLevels: make(map[int]int, NumPlayers),
		PlayerMoney:       make(map[int]int, NumPlayers),
		FruitsRemaining:   len(g.fruits),
		LastMultiplier:    float64(g.lastFruits) / 10,
	}
	for slot := range NumPlayers {
		view.Sectors[slot] = Sectors[slot]
		view.ImprovementLevels[slot] = g.improvement[slot]
		view.PlayerMoney[slot] = g.money[slot]
	}
	if g.Over() {
		view.Roles = make(map[int]string, NumPlayers)
		for slot := range NumPlayers {
			view.Roles[slot] = g.roles[slot]
		}
	}
	if g.round > 0 {
		view.WarCost = g.WarCost()
	}
	if current, ok := g.CurrentPlayer(); ok {
		view.CurrentPlayer = &current
	}

	return view
}

func (g *Game) PrivateView(slot int) any {
	if !validSlot(slot) {
		return PrivateState{YourID: slot}
	}

	return PrivateState{
		YourID:               slot,
		YourRole:             g.roles[slot],
		YourSector:           Sectors[slot],
		YourMoney:            g.money[slot],
		YourImprovementLevel: g.improvement[slot],
		YourSalary:           g.salary(slot),
	}
}
