package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/ecs/render"
	"github.com/milk9111/roomtrials/prefabs"
	"github.com/milk9111/roomtrials/sim"
	"golang.design/x/clipboard"
)

const viewMargin = 40

type Game struct {
	sim  *sim.Simulation
	hud  *render.HUD
	view render.View
	log  *slog.Logger

	debug         bool
	clipboardOK   bool
	copiedMessage int
}

func NewGame(spec prefabs.ExperimentSpec, logger *slog.Logger, debug bool) (*Game, error) {
	s, err := sim.New(spec, logger, sim.WithInput(render.NewInputSystem()))
	if err != nil {
		return nil, err
	}

	g := &Game{
		sim:   s,
		hud:   render.NewHUD(),
		view:  render.FitRooms(s.World, common.BaseWidth, common.BaseHeight, viewMargin),
		log:   logger,
		debug: debug,
	}
	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable, transcript copy disabled", "err", err)
	} else {
		g.clipboardOK = true
	}
	return g, nil
}

func (g *Game) Close() {
	g.sim.Close()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyTranscript()
	}

	g.sim.Step()

	status := []string{"WASD move  E grab/release  C copy transcript  F1 debug"}
	if g.copiedMessage > 0 {
		g.copiedMessage--
		status = append(status, "transcript copied")
	}
	panel := g.sim.ActivePanel()
	g.hud.Set(g.sim.PanelText(panel), status)
	g.hud.Update()
	return nil
}

func (g *Game) copyTranscript() {
	if !g.clipboardOK {
		return
	}
	lines := g.sim.Transcript()
	clipboard.Write(clipboard.FmtText, []byte(strings.Join(lines, "\n")))
	g.copiedMessage = common.TickRate * 2
	g.log.Info("transcript copied", "lines", len(lines))
}

func (g *Game) Draw(screen *ebiten.Image) {
	render.DrawWorld(g.sim.World, screen, g.view, g.debug)
	if g.debug {
		render.DrawPhysicsDebug(g.sim.Physics.Space(), screen, g.view)
		lines := g.sim.Summary()
		lines = append(lines, fmt.Sprintf("timers pending %d", g.sim.Timers.Pending()))
		render.DrawDebugText(screen, lines)
	}
	g.hud.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
