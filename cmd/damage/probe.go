package main

import (
	"fmt"
	"strings"

	"damage-game/internal/agent"
	"damage-game/internal/provider"

	"github.com/pterm/pterm"
)

type ProbeCmd struct {
	ProviderFlags `embed:""`
}

func (c *ProbeCmd) Run() error {
	pc, err := c.ProviderFlags.Resolve()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	stack := newProviderStack(ctx, pc)
	if len(stack.available) > 0 {
		pterm.Info.Printfln("%d models served: %s", len(stack.available), strings.Join(stack.available, ", "))
	}
	model := stack.router(pc.PlayerModels).PickActionModel("", 0, 0)
	resp, err := stack.client.Complete(ctx, provider.Request{
		System:    "You are a connectivity check. Return only JSON.",
		User:      `Reply with {"ok": true}.`,
		MaxTokens: 32,
		Model:     model,
	})
	if err != nil {
		pterm.Error.Printfln("completion via %s failed: %v", model, err)
		return fmt.Errorf("probe %s: %w", pc.BaseURL, err)
	}
	reply := agent.ExtractJSON(resp.Content)
	pterm.Success.Printfln("model=%s latency=%.0fms tokens=%d reply=%v",
		resp.Model, resp.LatencyMS, resp.Usage.TotalTokens, reply)
	return nil
}
