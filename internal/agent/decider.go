package agent

import (
	"context"
	"fmt"

	"damage-game/internal/game"
	"damage-game/internal/game/viewmodel"
	"damage-game/internal/provider"

	"github.com/rs/zerolog/log"
)

// Emitter receives structured events. eventlog.Recorder satisfies it.
type Emitter interface {
	Emit(eventType string, payload any)
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, any) {}

// RejectedReply carries the raw model text alongside a rejection.
type RejectedReply struct {
	Raw string
	Err error
}

func (e *RejectedReply) Error() string { return e.Err.Error() }
func (e *RejectedReply) Unwrap() error { return e.Err }

type Options struct {
	ContextWindow int
	DirectAttacks bool
}

// LLMDecider turns table views into decisions by asking the provider.
// Every method returns a usable value even when it also returns an error.
type LLMDecider struct {
	completer provider.Completer
	router    *provider.Router
	tokens    *provider.TokenMonitor
	events    Emitter
	opts      Options
}

func NewLLMDecider(c provider.Completer, r *provider.Router, tm *provider.TokenMonitor, events Emitter, opts Options) *LLMDecider {
	if events == nil {
		events = nopEmitter{}
	}
	if tm == nil {
		tm = provider.NewTokenMonitor()
	}
	if r == nil {
		r = provider.NewRouter("", nil)
	}
	return &LLMDecider{completer: c, router: r, tokens: tm, events: events, opts: opts}
}

func (d *LLMDecider) Tokens() *provider.TokenMonitor {
	return d.tokens
}

type providerCall struct {
	HandNo          int            `json:"hand_no"`
	PlayerID        string         `json:"player_id"`
	Purpose         string         `json:"purpose"`
	RequestedModel  string         `json:"requested_model"`
	ResolvedModel   string         `json:"resolved_model"`
	LatencyMS       float64        `json:"latency_ms"`
	Usage           provider.Usage `json:"usage"`
	MaxOutputTokens int            `json:"max_output_tokens"`
}

func (d *LLMDecider) ask(ctx context.Context, view viewmodel.SeatStateView, purpose string, p Prompt) (map[string]any, string, error) {
	model := d.router.PickActionModel(view.MyID, view.Me.Emotions.Tilt, view.Me.Exposure)
	maxTokens := d.tokens.RecommendedMaxOutputTokens(d.opts.ContextWindow)
	resp, err := d.completer.Complete(ctx, provider.Request{
		System:    p.System,
		User:      p.User,
		MaxTokens: maxTokens,
		Model:     model,
	})
	if err != nil {
		log.Warn().Err(err).Str("player_id", view.MyID).Str("purpose", purpose).Msg("provider call failed")
		return nil, "", fmt.Errorf("%w: %v", game.ErrProviderFailure, err)
	}
	d.tokens.Record(view.MyID, resp.Model, resp.Usage)
	d.events.Emit("provider_call", providerCall{
		HandNo:          view.HandNo,
		PlayerID:        view.MyID,
		Purpose:         purpose,
		RequestedModel:  model,
		ResolvedModel:   resp.Model,
		LatencyMS:       resp.LatencyMS,
		Usage:           resp.Usage,
		MaxOutputTokens: maxTokens,
	})
	log.Debug().Str("player_id", view.MyID).Str("purpose", purpose).Str("model", resp.Model).
		Float64("latency_ms", resp.LatencyMS).Msg("provider reply")
	return ExtractJSON(resp.Content), resp.Content, nil
}

func (d *LLMDecider) DecideAction(ctx context.Context, view viewmodel.SeatStateView) (ActionEnvelope, error) {
	obj, raw, err := d.ask(ctx, view, "action", ActionPrompt(view, d.opts.DirectAttacks))
	if err != nil {
		return ActionEnvelope{PlayerID: view.MyID, Kind: KindCheck}, err
	}
	if err := CheckSchema(SchemaAction, obj); err != nil {
		return ActionEnvelope{PlayerID: view.MyID, Kind: KindCheck}, &RejectedReply{Raw: raw, Err: err}
	}
	env := ParseActionEnvelope(obj, view.MyID)
	if err := ValidateAction(env, d.opts.DirectAttacks); err != nil {
		return env, &RejectedReply{Raw: raw, Err: fmt.Errorf("%w: %v", ErrSchemaValidation, err)}
	}
	return env, nil
}

func (d *LLMDecider) DecideIntent(ctx context.Context, view viewmodel.SeatStateView, selfOnly bool) (game.Intent, error) {
	none := game.Intent{PlayerID: view.MyID, Kind: game.IntentNone}
	obj, raw, err := d.ask(ctx, view, "intent", IntentPrompt(view, selfOnly))
	if err != nil {
		return none, err
	}
	if err := CheckSchema(SchemaIntent, obj); err != nil {
		return none, &RejectedReply{Raw: raw, Err: err}
	}
	in := ParseIntent(obj, view.MyID)
	if selfOnly && in.Kind != game.IntentSelfRegulate {
		return none, nil
	}
	return in, nil
}

func (d *LLMDecider) Chatter(ctx context.Context, view viewmodel.SeatStateView) (ChatterLine, error) {
	obj, raw, err := d.ask(ctx, view, "chatter", ChatterPrompt(view))
	if err != nil {
		return ChatterLine{SpeakerID: view.MyID}, err
	}
	if err := CheckSchema(SchemaChatter, obj); err != nil {
		return ChatterLine{SpeakerID: view.MyID}, &RejectedReply{Raw: raw, Err: err}
	}
	return ParseChatter(obj, view.MyID), nil
}

func (d *LLMDecider) EvaluateChatter(ctx context.Context, listener viewmodel.SeatStateView, line ChatterLine) (ChatterEffect, error) {
	obj, raw, err := d.ask(ctx, listener, "chatter_eval", ChatterEvalPrompt(listener, line))
	if err != nil {
		return ChatterEffect{Emotion: line.Emotion}, err
	}
	if err := CheckSchema(SchemaChatterEval, obj); err != nil {
		return ChatterEffect{Emotion: line.Emotion}, &RejectedReply{Raw: raw, Err: err}
	}
	eff, err := ParseChatterEffect(obj, line.Emotion)
	if err != nil {
		return ChatterEffect{Emotion: line.Emotion}, &RejectedReply{Raw: raw, Err: err}
	}
	return eff, nil
}
