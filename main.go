package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/logging"
	"github.com/milk9111/roomtrials/prefabs"
)

func main() {
	experiment := flag.String("experiment", "experiment.yaml", "experiment prefab in prefabs/ (embedded copy used when missing)")
	variant := flag.String("variant", "", "override the experiment variant: rooms or grab")
	level := flag.String("log", "info", "log level: trace, debug, info, warn")
	debug := flag.Bool("debug", false, "start with the debug overlay on")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := logging.NewLogger(*level, os.Stderr)

	spec, err := prefabs.LoadExperiment(*experiment)
	if err != nil {
		log.Fatal(err)
	}
	if *variant != "" {
		spec.Variant = *variant
		if err := spec.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("room trials: " + spec.Name)
	ebiten.SetTPS(common.TickRate)

	game, err := NewGame(spec, logger, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
