package main

import (
	"damage-game/internal/config"
	"damage-game/internal/viz"
)

type VizCmd struct {
	LogDir string  `help:"Directory holding event logs" type:"path"`
	Host   *string `help:"Listen host"`
	Port   *int    `help:"Listen port"`
}

func (c *VizCmd) Run() error {
	cfg, err := config.LoadViz()
	if err != nil {
		return err
	}
	set(&cfg.Host, c.Host)
	set(&cfg.Port, c.Port)
	dir, err := logDir(c.LogDir)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return viz.New(cfg, dir, nil).ListenAndServe(ctx)
}
