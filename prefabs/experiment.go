package prefabs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/milk9111/roomtrials/trial"
)

const (
	VariantRooms = "rooms"
	VariantGrab  = "grab"

	DefaultSensorTag = "Player"
)

var ErrInvalidExperiment = errors.New("prefabs: invalid experiment")

// ExperimentSpec is the authored scene plus the trial configuration.
type ExperimentSpec struct {
	Name            string        `yaml:"name"`
	Variant         string        `yaml:"variant"`
	Trials          int           `yaml:"trials"`
	Wait            time.Duration `yaml:"wait"`
	ReturnDoorDelay time.Duration `yaml:"return_door_delay"`
	PlayfulCue      bool          `yaml:"playful_cue"`
	SensorTag       string        `yaml:"sensor_tag"`

	Player PlayerSpec  `yaml:"player"`
	Boxes  []BoxSpec   `yaml:"boxes"`
	Rooms  []RoomSpec  `yaml:"rooms"`
	Walls  []AABBSpec  `yaml:"walls"`
	Doors  []DoorSpec  `yaml:"doors"`
	Panels []PanelSpec `yaml:"panels"`
	Reward PropSpec    `yaml:"reward"`
	Cues   CuesSpec    `yaml:"cues"`
}

type PlayerSpec struct {
	Transform TransformSpec `yaml:"transform"`
	Radius    float64       `yaml:"radius"`
	Reach     float64       `yaml:"reach"`
	Mass      float64       `yaml:"mass"`
}

type BoxSpec struct {
	Name      string        `yaml:"name"`
	Transform TransformSpec `yaml:"transform"`
	Size      float64       `yaml:"size"`
	Mass      float64       `yaml:"mass"`
	Friction  float64       `yaml:"friction"`
	Color     *YAMLColor    `yaml:"color"`
}

type RoomSpec struct {
	ID     string     `yaml:"id"`
	Bounds AABBSpec   `yaml:"bounds"`
	Sensor AABBSpec   `yaml:"sensor"`
	Color  *YAMLColor `yaml:"color"`
}

type DoorSpec struct {
	Role  string        `yaml:"role"`
	Hinge TransformSpec `yaml:"hinge"`
	// Width is the leaf length along the hinge's local X axis.
	Width float64 `yaml:"width"`
	Swing float64 `yaml:"swing"`
	Speed float64 `yaml:"speed"`
}

type PanelSpec struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type PropSpec struct {
	Name      string        `yaml:"name"`
	Transform TransformSpec `yaml:"transform"`
}

type CuesSpec struct {
	Playful PropSpec `yaml:"playful"`
	Boring  PropSpec `yaml:"boring"`
}

// EnvOverrides are optional environment overrides applied after the yaml
// load. Unset variables leave the authored values alone.
type EnvOverrides struct {
	Trials          *int           `env:"ROOMTRIALS_TRIALS"`
	Wait            *time.Duration `env:"ROOMTRIALS_WAIT"`
	ReturnDoorDelay *time.Duration `env:"ROOMTRIALS_RETURN_DOOR_DELAY"`
	SensorTag       *string        `env:"ROOMTRIALS_SENSOR_TAG"`
	Variant         *string        `env:"ROOMTRIALS_VARIANT"`
	PlayfulCue      *bool          `env:"ROOMTRIALS_PLAYFUL_CUE"`
}

// LoadExperiment loads an experiment prefab, applies environment overrides
// and validates the result.
func LoadExperiment(filename string) (ExperimentSpec, error) {
	spec, err := LoadSpec[ExperimentSpec](filename)
	if err != nil {
		return ExperimentSpec{}, err
	}
	if err := spec.ApplyEnv(); err != nil {
		return ExperimentSpec{}, err
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return ExperimentSpec{}, err
	}
	return spec, nil
}

// ApplyEnv overlays EnvOverrides onto the experiment.
func (s *ExperimentSpec) ApplyEnv() error {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("prefabs: parse env: %w", err)
	}
	if o.Trials != nil {
		s.Trials = *o.Trials
	}
	if o.Wait != nil {
		s.Wait = *o.Wait
	}
	if o.ReturnDoorDelay != nil {
		s.ReturnDoorDelay = *o.ReturnDoorDelay
	}
	if o.SensorTag != nil {
		s.SensorTag = *o.SensorTag
	}
	if o.Variant != nil {
		s.Variant = *o.Variant
	}
	if o.PlayfulCue != nil {
		s.PlayfulCue = *o.PlayfulCue
	}
	return nil
}

func (s *ExperimentSpec) applyDefaults() {
	s.Variant = strings.ToLower(strings.TrimSpace(s.Variant))
	if s.Variant == "" {
		s.Variant = VariantRooms
	}
	if s.SensorTag == "" {
		s.SensorTag = DefaultSensorTag
	}
	for i := range s.Rooms {
		if s.Rooms[i].Sensor.Empty() {
			s.Rooms[i].Sensor = s.Rooms[i].Bounds
		}
	}
}

// Validate rejects specs the controller cannot run.
func (s ExperimentSpec) Validate() error {
	if s.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalidExperiment, s.Trials)
	}
	if len(s.Boxes) == 0 {
		return fmt.Errorf("%w: no boxes", ErrInvalidExperiment)
	}
	switch s.Variant {
	case VariantGrab:
		return nil
	case VariantRooms:
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidExperiment, s.Variant)
	}

	if s.Wait < 0 || s.ReturnDoorDelay < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidExperiment)
	}
	rooms := make(map[string]bool, len(s.Rooms))
	for _, r := range s.Rooms {
		rooms[r.ID] = true
	}
	for _, id := range []string{string(trial.RoomStart), string(trial.RoomWaiting), string(trial.RoomReveal)} {
		if !rooms[id] {
			return fmt.Errorf("%w: missing room %q", ErrInvalidExperiment, id)
		}
	}
	for _, d := range s.Doors {
		switch trial.DoorRole(d.Role) {
		case trial.DoorStartToWaiting, trial.DoorWaitingToReveal, trial.DoorRevealToStart:
		default:
			return fmt.Errorf("%w: unknown door role %q", ErrInvalidExperiment, d.Role)
		}
	}
	return nil
}

// TrialConfig converts the experiment to the controller's configuration.
func (s ExperimentSpec) TrialConfig() trial.Config {
	return trial.Config{
		Trials:          s.Trials,
		Rooms:           s.Variant != VariantGrab,
		WaitDuration:    s.Wait,
		ReturnDoorDelay: s.ReturnDoorDelay,
		PlayfulCue:      s.PlayfulCue,
	}
}

// Room returns the room with the given id.
func (s ExperimentSpec) Room(id string) (RoomSpec, bool) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return RoomSpec{}, false
}

// Center returns the middle of the rectangle.
func (b AABBSpec) Center() (x, z float64) {
	return b.X + b.Width/2, b.Z + b.Depth/2
}
