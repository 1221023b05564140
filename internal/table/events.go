package table

import (
	"damage-game/internal/agent"
	"damage-game/internal/game"
	"damage-game/internal/provider"
)

const (
	EventGameStarted       = "game_started"
	EventHandStarted       = "hand_started"
	EventForcedBet         = "forced_bet"
	EventCardsDealt        = "cards_dealt"
	EventPhaseChanged      = "phase_changed"
	EventAffectIntent      = "affect_intent"
	EventAffectResolved    = "affect_resolved"
	EventChatterLine       = "chatter_line"
	EventChatterResolved   = "chatter_resolved"
	EventActionSubmitted   = "action_submitted"
	EventActionRejected    = "action_rejected"
	EventActionResolved    = "action_resolved"
	EventCommunityRevealed = "community_revealed"
	EventShowdown          = "showdown"
	EventHandEnded         = "hand_ended"
	EventLifeLost          = "life_lost"
	EventPlayerEliminated  = "player_eliminated"
	EventTurnSummary       = "turn_summary"
	EventGameEnded         = "game_ended"
)

const (
	PhaseSetup      = "setup"
	PhaseAffect     = "affect"
	PhaseDiscussion = "discussion"
	PhaseBetting    = "betting"
	PhaseOffturn    = "offturn"
	PhaseShowdown   = "showdown"
	PhaseOutcome    = "outcome"
)

type seatInfo struct {
	PlayerID    string `json:"player_id"`
	Seat        int    `json:"seat"`
	Model       string `json:"model,omitempty"`
	Will        int    `json:"will"`
	SkillAffect int    `json:"skill_affect"`
	Lives       int    `json:"lives"`
	Bankroll    int    `json:"bankroll"`
}

type gameStarted struct {
	GameID           string     `json:"game_id"`
	Seed             int64      `json:"seed"`
	CardStyle        string     `json:"card_style"`
	Hands            int        `json:"turns"`
	Ante             int        `json:"ante"`
	MinRaise         int        `json:"min_raise"`
	Blinds           bool       `json:"enable_blinds"`
	SmallBlind       int        `json:"small_blind,omitempty"`
	BigBlind         int        `json:"big_blind,omitempty"`
	EnableLives      bool       `json:"enable_lives"`
	DirectAttacks    bool       `json:"enable_direct_emoter_attacks"`
	Discussion       bool       `json:"enable_discussion_layer"`
	OngoingTable     bool       `json:"ongoing_table"`
	ContinueUntil    int        `json:"continue_until_survivors,omitempty"`
	StartingBankroll int        `json:"starting_bankroll"`
	Players          []seatInfo `json:"players"`
}

type handStarted struct {
	HandNo    int                   `json:"hand_no"`
	Button    string                `json:"button_player_id"`
	CardStyle string                `json:"card_style"`
	Players   []game.PlayerSnapshot `json:"players"`
}

type forcedBet struct {
	HandNo   int    `json:"hand_no"`
	PlayerID string `json:"player_id"`
	Kind     string `json:"kind"`
	Amount   int    `json:"amount"`
}

type cardsDealt struct {
	HandNo   int      `json:"hand_no"`
	PlayerID string   `json:"player_id"`
	Cards    []string `json:"cards"`
}

type phaseChanged struct {
	HandNo int    `json:"hand_no"`
	Phase  string `json:"phase"`
	Street string `json:"street,omitempty"`
}

type affectIntent struct {
	HandNo int         `json:"hand_no"`
	Phase  string      `json:"phase"`
	Intent game.Intent `json:"intent"`
	Error  string      `json:"error,omitempty"`
}

type affectResolved struct {
	HandNo int               `json:"hand_no"`
	Phase  string            `json:"phase"`
	Result game.AffectResult `json:"result"`
}

type chatterLine struct {
	HandNo int               `json:"hand_no"`
	Phase  string            `json:"phase"`
	Line   agent.ChatterLine `json:"line"`
}

type chatterResolved struct {
	HandNo   int          `json:"hand_no"`
	Phase    string       `json:"phase"`
	Speaker  string       `json:"speaker_player_id"`
	Target   string       `json:"target_player_id"`
	Emotion  game.Emotion `json:"emotion"`
	Delta    float64      `json:"delta"`
	Applied  float64      `json:"applied_delta"`
	Fallback bool         `json:"fallback,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Note     string       `json:"note,omitempty"`
}

type actionSubmitted struct {
	HandNo int                  `json:"hand_no"`
	Street string               `json:"street"`
	Action agent.ActionEnvelope `json:"action"`
}

type actionRejected struct {
	HandNo      int         `json:"hand_no"`
	Street      string      `json:"street"`
	PlayerID    string      `json:"player_id"`
	Reason      string      `json:"reason"`
	Detail      string      `json:"detail"`
	RawResponse string      `json:"raw_response,omitempty"`
	Proposed    game.Action `json:"proposed"`
}

type actionResolved struct {
	HandNo int    `json:"hand_no"`
	Street string `json:"street"`
	game.ActionResult
}

type communityRevealed struct {
	HandNo int      `json:"hand_no"`
	Street string   `json:"street"`
	Cards  []string `json:"cards"`
	Board  []string `json:"board"`
}

type showdownHand struct {
	PlayerID string        `json:"player_id"`
	Cards    []string      `json:"cards"`
	Best     []string      `json:"best_five"`
	Rank     game.HandRank `json:"rank"`
}

type showdown struct {
	HandNo int            `json:"hand_no"`
	Walk   bool           `json:"walk"`
	Hands  []showdownHand `json:"hands"`
}

type handEnded struct {
	HandNo    int                   `json:"hand_no"`
	Pot       int                   `json:"pot"`
	Payouts   map[string]int        `json:"payouts"`
	Tranches  []game.Tranche        `json:"tranches"`
	Unclaimed int                   `json:"unclaimed,omitempty"`
	Winners   []string              `json:"winners"`
	Players   []game.PlayerSnapshot `json:"players"`
}

type lifeEvent struct {
	HandNo         int    `json:"hand_no"`
	PlayerID       string `json:"player_id"`
	RemainingLives int    `json:"remaining_lives"`
	Reason         string `json:"reason"`
}

type turnSummary struct {
	HandNo         int                            `json:"hand_no"`
	TokenStats     provider.TokenStats            `json:"token_stats"`
	TokenByModel   map[string]provider.TokenStats `json:"token_stats_by_model"`
	ContextWarning string                         `json:"context_warning,omitempty"`
}

type gameEnded struct {
	Reason     string                `json:"reason"`
	Hands      int                   `json:"hands_played"`
	Winner     string                `json:"winner_player_id,omitempty"`
	FinalState []game.PlayerSnapshot `json:"final_state"`
	TokenStats *provider.TokenStats  `json:"token_stats,omitempty"`
}
