package component

// PanelID names one UI surface.
type PanelID string

const (
	PanelSelect  PanelID = "select"
	PanelGoWait  PanelID = "go_wait"
	PanelWaiting PanelID = "waiting"
	PanelFail    PanelID = "fail"
	PanelSuccess PanelID = "success"
)

// Panel is one exclusive UI surface. Visibility lives in Active.
type Panel struct {
	ID   PanelID
	Text string
}

var PanelComponent = NewComponent[Panel]()

// Active mirrors a scene object's activeSelf flag.
type Active struct {
	On bool
}

var ActiveComponent = NewComponent[Active]()
