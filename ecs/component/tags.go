package component

// Tag is the label sensors filter on.
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]()

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type RewardTag struct{}

var RewardTagComponent = NewComponent[RewardTag]()

// Cue marks one of the two presentation cue objects.
type Cue struct {
	Playful bool
}

var CueComponent = NewComponent[Cue]()
