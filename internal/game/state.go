package game

type Emotion string

const (
	EmotionFear       Emotion = "fear"
	EmotionAnger      Emotion = "anger"
	EmotionShame      Emotion = "shame"
	EmotionConfidence Emotion = "confidence"
	EmotionTilt       Emotion = "tilt"
)

var AllEmotions = []Emotion{EmotionFear, EmotionAnger, EmotionShame, EmotionConfidence, EmotionTilt}

type Street string

const (
	StreetDraw    Street = "draw"
	StreetPreFlop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
)

// HoldemStreets lists the streets in order with the board size visible during each.
var HoldemStreets = []struct {
	Street Street
	Board  int
}{
	{StreetPreFlop, 0},
	{StreetFlop, 3},
	{StreetTurn, 4},
	{StreetRiver, 5},
}

const (
	FocusMax        = 100.0
	StressMax       = 100.0
	FocusRegen      = 5.0
	DefaultWill     = 60
	DefaultSkill    = 55
	DefaultLives    = 3
	DefaultBankroll = 200
)

type Emotions struct {
	Fear       float64 `json:"fear"`
	Anger      float64 `json:"anger"`
	Shame      float64 `json:"shame"`
	Confidence float64 `json:"confidence"`
	Tilt       float64 `json:"tilt"`
}

func (e *Emotions) ptr(em Emotion) *float64 {
	switch em {
	case EmotionFear:
		return &e.Fear
	case EmotionAnger:
		return &e.Anger
	case EmotionShame:
		return &e.Shame
	case EmotionConfidence:
		return &e.Confidence
	case EmotionTilt:
		return &e.Tilt
	}
	return nil
}

func (e *Emotions) Get(em Emotion) float64 {
	if p := e.ptr(em); p != nil {
		return *p
	}
	return 0
}

// Add moves one emotion by d, keeping it in [-1,1]. It returns the change applied.
func (e *Emotions) Add(em Emotion, d float64) float64 {
	p := e.ptr(em)
	if p == nil {
		return 0
	}
	before := *p
	*p = clamp(before+d, -1, 1)
	return *p - before
}

type Player struct {
	ID              string
	Seat            int
	Model           string
	Lives           int
	Bankroll        int
	CurrentBet      int
	Contribution    int
	InHand          bool
	Hand            []Card
	Will            int
	SkillAffect     int
	Focus           float64
	Stress          float64
	ResistanceBonus float64
	HandShift       map[Emotion]float64
	Tempo           int
	Exposure        int
	Emotions        Emotions
}

type PlayerSetup struct {
	ID          string
	Model       string
	Lives       int
	Bankroll    int
	Will        int
	SkillAffect int
}

func NewPlayer(seat int, s PlayerSetup) *Player {
	if s.Will == 0 {
		s.Will = DefaultWill
	}
	if s.SkillAffect == 0 {
		s.SkillAffect = DefaultSkill
	}
	return &Player{
		ID:          s.ID,
		Seat:        seat,
		Model:       s.Model,
		Lives:       s.Lives,
		Bankroll:    s.Bankroll,
		Will:        s.Will,
		SkillAffect: s.SkillAffect,
		Focus:       FocusMax,
		HandShift:   map[Emotion]float64{},
	}
}

func (p *Player) Alive() bool {
	return p.Lives > 0
}

// CanPlay reports whether the player can be dealt into a new hand.
func (p *Player) CanPlay() bool {
	return p.Lives > 0 && p.Bankroll > 0
}

// ResetForHand clears hand-scoped fields and regenerates focus.
func (p *Player) ResetForHand() {
	p.CurrentBet = 0
	p.Contribution = 0
	p.ResistanceBonus = 0
	p.HandShift = map[Emotion]float64{}
	p.Hand = nil
	p.InHand = p.CanPlay()
	p.Focus = clamp(p.Focus+FocusRegen, 0, FocusMax)
}

// MaxAffectSpend is the most focus one affect action may consume.
func (p *Player) MaxAffectSpend() float64 {
	limit := 20 + float64(p.SkillAffect)/5
	if p.Focus < limit {
		return p.Focus
	}
	return limit
}

func (p *Player) AddStress(d float64) {
	p.Stress = clamp(p.Stress+d, 0, StressMax)
}

type PlayerSnapshot struct {
	PlayerID     string   `json:"player_id"`
	Seat         int      `json:"seat"`
	Lives        int      `json:"lives"`
	Bankroll     int      `json:"bankroll"`
	CurrentBet   int      `json:"current_bet"`
	Contribution int      `json:"hand_contribution"`
	InHand       bool     `json:"in_hand"`
	Will         int      `json:"will"`
	SkillAffect  int      `json:"skill_affect"`
	Focus        float64  `json:"focus"`
	Stress       float64  `json:"stress"`
	Tempo        int      `json:"tempo"`
	Exposure     int      `json:"exposure"`
	Emotions     Emotions `json:"emotions"`
}

func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		PlayerID:     p.ID,
		Seat:         p.Seat,
		Lives:        p.Lives,
		Bankroll:     p.Bankroll,
		CurrentBet:   p.CurrentBet,
		Contribution: p.Contribution,
		InHand:       p.InHand,
		Will:         p.Will,
		SkillAffect:  p.SkillAffect,
		Focus:        round2(p.Focus),
		Stress:       round2(p.Stress),
		Tempo:        p.Tempo,
		Exposure:     p.Exposure,
		Emotions:     p.Emotions,
	}
}

// Table holds hand-scoped state. It is discarded when the hand ends.
type Table struct {
	Players   []*Player
	Pot       int
	HighBet   int
	Ante      int
	MinRaise  int
	Street    Street
	Community []Card
	board     []Card
}

func NewTable(players []*Player, ante, minRaise int) *Table {
	return &Table{Players: players, Ante: ante, MinRaise: minRaise}
}

// SetBoard stores the pre-dealt community cards. They stay hidden until revealed.
func (t *Table) SetBoard(cards []Card) {
	t.board = append([]Card(nil), cards...)
	t.Community = nil
}

// RevealTo shows the board up to n cards and returns only the newly shown cards.
func (t *Table) RevealTo(n int) []Card {
	if n > len(t.board) {
		n = len(t.board)
	}
	if n <= len(t.Community) {
		return nil
	}
	fresh := append([]Card(nil), t.board[len(t.Community):n]...)
	t.Community = append(t.Community, fresh...)
	return fresh
}

func (t *Table) InHand() []*Player {
	out := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		if p.InHand {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) CountInHand() int {
	n := 0
	for _, p := range t.Players {
		if p.InHand {
			n++
		}
	}
	return n
}

func (t *Table) Find(id string) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Commit moves up to amount chips from p into the pot. Forced bets pass
// towardBet=false so they do not count against the street's call amount.
func (t *Table) Commit(p *Player, amount int, towardBet bool) int {
	if amount > p.Bankroll {
		amount = p.Bankroll
	}
	if amount <= 0 {
		return 0
	}
	p.Bankroll -= amount
	p.Contribution += amount
	t.Pot += amount
	if towardBet {
		p.CurrentBet += amount
		if p.CurrentBet > t.HighBet {
			t.HighBet = p.CurrentBet
		}
	}
	return amount
}

func (t *Table) ToCall(p *Player) int {
	if d := t.HighBet - p.CurrentBet; d > 0 {
		return d
	}
	return 0
}

// StartStreet resets per-street betting state. Contributions keep accumulating.
func (t *Table) StartStreet(s Street) {
	t.Street = s
	t.HighBet = 0
	for _, p := range t.Players {
		p.CurrentBet = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	if v < 0 {
		return -float64(int64(-v*100+0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
