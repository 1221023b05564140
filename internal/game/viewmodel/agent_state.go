package viewmodel

import "damage-game/internal/game"

type SeatView struct {
	PlayerID     string        `json:"player_id"`
	Seat         int           `json:"seat"`
	Lives        int           `json:"lives"`
	Bankroll     int           `json:"bankroll"`
	CurrentBet   int           `json:"current_bet"`
	Contribution int           `json:"hand_contribution"`
	ToCall       int           `json:"to_call"`
	InHand       bool          `json:"in_hand"`
	Tempo        int           `json:"tempo"`
	Exposure     int           `json:"exposure"`
	Emotions     game.Emotions `json:"emotions"`
}

// SeatStateView is what one player is allowed to see when deciding.
type SeatStateView struct {
	HandNo         int               `json:"hand_no"`
	Street         string            `json:"street"`
	Pot            int               `json:"pot"`
	CurrentHighBet int               `json:"current_high_bet"`
	MinRaise       int               `json:"min_raise"`
	CommunityCards []string          `json:"community_cards"`
	MyID           string            `json:"my_player_id"`
	MyHand         []string          `json:"my_hand"`
	MyFocus        float64           `json:"my_focus"`
	MyStress       float64           `json:"my_stress"`
	MyMaxSpend     float64           `json:"my_max_focus_spend"`
	ToCall         int               `json:"to_call"`
	LegalActions   []game.ActionType `json:"legal_actions,omitempty"`
	Opponents      []SeatView        `json:"opponents"`
	Me             SeatView          `json:"me"`
}

type PublicStateView struct {
	HandNo         int        `json:"hand_no"`
	Street         string     `json:"street"`
	Pot            int        `json:"pot"`
	CurrentHighBet int        `json:"current_high_bet"`
	CommunityCards []string   `json:"community_cards"`
	Seats          []SeatView `json:"seats"`
}

func seatOf(t *game.Table, p *game.Player) SeatView {
	return SeatView{
		PlayerID:     p.ID,
		Seat:         p.Seat,
		Lives:        p.Lives,
		Bankroll:     p.Bankroll,
		CurrentBet:   p.CurrentBet,
		Contribution: p.Contribution,
		ToCall:       t.ToCall(p),
		InHand:       p.InHand,
		Tempo:        p.Tempo,
		Exposure:     p.Exposure,
		Emotions:     p.Emotions,
	}
}

func BuildSeatState(t *game.Table, me *game.Player, handNo int, legal []game.ActionType) SeatStateView {
	opponents := make([]SeatView, 0, len(t.Players))
	for _, p := range t.Players {
		if p == nil || p.ID == me.ID {
			continue
		}
		opponents = append(opponents, seatOf(t, p))
	}
	return SeatStateView{
		HandNo:         handNo,
		Street:         string(t.Street),
		Pot:            t.Pot,
		CurrentHighBet: t.HighBet,
		MinRaise:       t.MinRaise,
		CommunityCards: game.CardCodes(t.Community),
		MyID:           me.ID,
		MyHand:         game.CardCodes(me.Hand),
		MyFocus:        me.Focus,
		MyStress:       me.Stress,
		MyMaxSpend:     me.MaxAffectSpend(),
		ToCall:         t.ToCall(me),
		LegalActions:   legal,
		Opponents:      opponents,
		Me:             seatOf(t, me),
	}
}

func BuildPublicState(t *game.Table, handNo int) PublicStateView {
	seats := make([]SeatView, 0, len(t.Players))
	for _, p := range t.Players {
		if p == nil {
			continue
		}
		seats = append(seats, seatOf(t, p))
	}
	return PublicStateView{
		HandNo:         handNo,
		Street:         string(t.Street),
		Pot:            t.Pot,
		CurrentHighBet: t.HighBet,
		CommunityCards: game.CardCodes(t.Community),
		Seats:          seats,
	}
}
