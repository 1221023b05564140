package agent

import (
	"context"
	"errors"
	"testing"

	"damage-game/internal/game"
	"damage-game/internal/game/viewmodel"
	"damage-game/internal/provider"
)

type recordedEvent struct {
	kind    string
	payload any
}

type captureEmitter struct {
	events []recordedEvent
}

func (c *captureEmitter) Emit(kind string, payload any) {
	c.events = append(c.events, recordedEvent{kind, payload})
}

func canned(content string) provider.Completer {
	return provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		return provider.Response{
			Content: content,
			Model:   req.Model,
			Usage:   provider.Usage{PromptTokens: 300, CompletionTokens: 40, TotalTokens: 340},
		}, nil
	})
}

func testView() viewmodel.SeatStateView {
	return viewmodel.SeatStateView{
		HandNo:       1,
		MyID:         "p1",
		MyMaxSpend:   31,
		LegalActions: []game.ActionType{game.ActionFold, game.ActionCheck, game.ActionRaise},
		Me:           viewmodel.SeatView{PlayerID: "p1", Exposure: 3},
	}
}

func TestDecideActionRecordsCall(t *testing.T) {
	em := &captureEmitter{}
	router := provider.NewRouter("qwen2.5-14b-instruct", []string{"mistral-small-24b"})
	var asked string
	c := provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		asked = req.Model
		return canned(`{"kind":"raise","amount":15,"attack_plan":{"target_player_id":"p2","emotional_intent":"fear"}}`).Complete(ctx, req)
	})
	d := NewLLMDecider(c, router, nil, em, Options{ContextWindow: 8192, DirectAttacks: true})
	env, err := d.DecideAction(context.Background(), testView())
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if env.Kind != KindRaise || env.Amount != 15 {
		t.Fatalf("envelope = %+v", env)
	}
	if asked != "mistral-small-24b" {
		t.Fatalf("exposed player should route to 24b, got %q", asked)
	}
	if len(em.events) != 1 || em.events[0].kind != "provider_call" {
		t.Fatalf("events = %+v", em.events)
	}
	call := em.events[0].payload.(providerCall)
	if call.Purpose != "action" || call.Usage.TotalTokens != 340 || call.MaxOutputTokens <= 0 {
		t.Fatalf("provider_call = %+v", call)
	}
	if d.Tokens().Stats().Calls != 1 {
		t.Fatalf("token monitor not updated")
	}
}

func TestDecideActionProviderFailure(t *testing.T) {
	c := provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		return provider.Response{}, provider.ErrUpstream
	})
	em := &captureEmitter{}
	d := NewLLMDecider(c, nil, nil, em, Options{})
	_, err := d.DecideAction(context.Background(), testView())
	if !errors.Is(err, game.ErrProviderFailure) {
		t.Fatalf("want ErrProviderFailure, got %v", err)
	}
	if len(em.events) != 0 {
		t.Fatalf("failed call should not emit provider_call")
	}
}

func TestDecideActionSchemaFailure(t *testing.T) {
	d := NewLLMDecider(canned(`I fold, obviously.`), nil, nil, nil, Options{})
	env, err := d.DecideAction(context.Background(), testView())
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("want ErrSchemaValidation, got %v", err)
	}
	var rr *RejectedReply
	if !errors.As(err, &rr) || rr.Raw != "I fold, obviously." {
		t.Fatalf("raw reply not carried: %v", err)
	}
	if env.Kind != KindCheck {
		t.Fatalf("fallback envelope = %+v", env)
	}
}

func TestDecideActionMissingPlan(t *testing.T) {
	d := NewLLMDecider(canned(`{"kind":"raise","amount":10}`), nil, nil, nil, Options{DirectAttacks: true})
	_, err := d.DecideAction(context.Background(), testView())
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("want ErrSchemaValidation, got %v", err)
	}
}

func TestDecideIntentSelfOnly(t *testing.T) {
	d := NewLLMDecider(canned(`{"intent":"attack","target_player_id":"p2","emotion":"fear"}`), nil, nil, nil, Options{})
	in, err := d.DecideIntent(context.Background(), testView(), true)
	if err != nil {
		t.Fatalf("intent: %v", err)
	}
	if in.Kind != game.IntentNone {
		t.Fatalf("off-turn attack should collapse to none, got %s", in.Kind)
	}
	in, err = d.DecideIntent(context.Background(), testView(), false)
	if err != nil || in.Kind != game.IntentAttack || in.TargetID != "p2" {
		t.Fatalf("intent = %+v, %v", in, err)
	}
}

func TestChatterAndEvaluation(t *testing.T) {
	d := NewLLMDecider(canned(`{"message":"Your hands are shaking.","target_player_id":"p2","intended_emotion":"fear","tone":"cold"}`), nil, nil, nil, Options{})
	line, err := d.Chatter(context.Background(), testView())
	if err != nil {
		t.Fatalf("chatter: %v", err)
	}
	if line.SpeakerID != "p1" || line.TargetID != "p2" || line.Tone != "cold" {
		t.Fatalf("line = %+v", line)
	}

	judge := NewLLMDecider(canned(`{"delta":0.07,"reason":"rattled"}`), nil, nil, nil, Options{})
	eff, err := judge.EvaluateChatter(context.Background(), testView(), line)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if eff.Emotion != game.EmotionFear || eff.Delta != 0.07 {
		t.Fatalf("effect = %+v", eff)
	}
}
