package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/roomtrials/common"
	"github.com/milk9111/roomtrials/sim"
	"github.com/milk9111/roomtrials/trial"
	"github.com/spf13/cobra"
)

const transcriptTail = 12

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the experiment in the terminal",
		Long: `Play the experiment with the keyboard.

Keys:
  1-9   grab box N
  r     release
  s     walk to the start room
  w     walk to the waiting room
  v     walk to the reveal room
  q     quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadExperiment(cmd)
			if err != nil {
				return err
			}

			logOut := io.Discard
			if path, _ := cmd.Flags().GetString("log-file"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			log := newLogger(cmd, logOut)

			s, err := sim.New(spec, log)
			if err != nil {
				return err
			}
			defer s.Close()

			cues := newCuePlayer()
			if mute, _ := cmd.Flags().GetBool("mute"); !mute {
				if err := cues.Init(); err != nil {
					log.Warn("audio unavailable", "err", err)
				}
			}
			defer cues.Close()
			s.Controller.OnPhase(cues.Phase)
			s.Controller.OnOutcome(cues.Outcome)

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			t := &terminal{screen: screen, sim: s}
			t.run()
			return nil
		},
	}

	cmd.Flags().Bool("mute", false, "Disable audio cues")
	cmd.Flags().String("log-file", "", "Write logs to this file instead of discarding them")
	return cmd
}

type terminal struct {
	screen tcell.Screen
	sim    *sim.Simulation
	status string
}

func (t *terminal) run() {
	ticker := time.NewTicker(time.Second / common.TickRate)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !t.handle(ev) {
				return
			}
		case <-ticker.C:
			t.sim.Step()
			t.draw()
		}
	}
}

func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		r := ev.Rune()
		switch {
		case r == 'q':
			return false
		case r >= '1' && r <= '9':
			i := int(r - '1')
			if t.sim.Grab(i) {
				t.status = fmt.Sprintf("grabbed box %d", i)
			} else {
				t.status = fmt.Sprintf("cannot grab box %d", i)
			}
		case r == 'r':
			if t.sim.Release() {
				t.status = "released"
			}
		case r == 's':
			t.walk(string(trial.RoomStart))
		case r == 'w':
			t.walk(string(trial.RoomWaiting))
		case r == 'v':
			t.walk(string(trial.RoomReveal))
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *terminal) walk(room string) {
	if err := t.sim.Walk(room); err != nil {
		t.status = err.Error()
		return
	}
	t.status = "walked to " + room
}

func (t *terminal) draw() {
	t.screen.Clear()
	plain := tcell.StyleDefault
	bold := plain.Bold(true)
	dim := plain.Foreground(tcell.ColorGray)

	y := 0
	for i, line := range t.sim.Summary() {
		style := plain
		if i == 0 {
			style = bold
		}
		t.print(0, y, line, style)
		y++
	}
	y++

	panel := t.sim.ActivePanel()
	if panel != "" {
		t.print(0, y, "["+panel+"] "+t.sim.PanelText(panel), plain.Foreground(tcell.ColorYellow))
	}
	y++
	if t.sim.RewardVisible() {
		t.print(0, y, "reward is visible", plain.Foreground(tcell.ColorGreen))
	}
	y += 2

	lines := t.sim.Transcript()
	if len(lines) > transcriptTail {
		lines = lines[len(lines)-transcriptTail:]
	}
	for _, line := range lines {
		t.print(0, y, line, dim)
		y++
	}
	y++
	t.print(0, y, t.status, plain)
	t.print(0, y+1, "1-9 grab  r release  s/w/v walk  q quit", dim)
	t.screen.Show()
}

func (t *terminal) print(x, y int, s string, style tcell.Style) {
	w, h := t.screen.Size()
	if y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
