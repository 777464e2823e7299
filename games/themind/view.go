/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package themind

import "slices"

type LevelStart struct {
	Level int `json:"level"`
}

type CardPlay struct {
	Card          int   `json:"card"`
	Skipped       []int `json:"skipped,omitempty"`
	LifeLost      bool  `json:"life_lost"`
	Lives         int   `json:"lives"`
	LevelComplete bool  `json:"level_complete"`
}

type StarUse struct {
	Discarded     map[int]int `json:"discarded"`
	LevelComplete bool        `json:"level_complete"`
}

type PublicState struct {
	NumPlayers       int   `json:"num_players"`
	CurrentLevel     int   `json:"current_level"`
	MaxLevels        int   `json:"max_levels"`
	Lives            int   `json:"lives"`
	MaxLives         int   `json:"max_lives"`
	ThrowingStars    int   `json:"throwing_stars"`
	MaxThrowingStars int   `json:"max_throwing_stars"`
	State            State `json:"state"`
	PlayedPile       []int `json:"played_pile"`
	DiscardedCount   int   `json:"discarded_count"`
	CardsInPlay      int   `json:"cards_in_play"`
	HandSizes        []int `json:"hand_sizes"`
}

type PrivateState struct {
	YourID   int   `json:"your_id"`
	YourHand []int `json:"your_hand"`
}

func (g *Game) PublicView() any {
	sizes := make([]int, g.players)
	inPlay := 0
	for slot, hand := range g.hands {
		sizes[slot] = len(hand)
		inPlay += len(hand)
	}

	pile := slices.Clone(g.pile)
	if pile == nil {
		pile = []int{}
	}

	return PublicState{
		NumPlayers:       g.players,
		CurrentLevel:     g.level,
		MaxLevels:        MaxLevels,
		Lives:            g.lives,
		MaxLives:         g.maxLives,
		ThrowingStars:    g.stars,
		MaxThrowingStars: g.maxStars,
		State:            g.state,
		PlayedPile:       pile,
		DiscardedCount:   len(g.discarded),
		CardsInPlay:      inPlay,
		HandSizes:        sizes,
	}
}

func (g *Game) PrivateView(slot int) any {
	hand := g.Hand(slot)
	if hand == nil {
		hand = []int{}
	}

	return PrivateState{YourID: slot, YourHand: hand}
}
