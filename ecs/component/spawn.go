package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/roomtrials/common"
)

// SpawnPoint is the captured initial placement of a selectable. Written once
// by SpawnRegistry.CaptureAll and only read afterwards.
type SpawnPoint struct {
	Position common.Vec3
	Rotation common.Quat
	Parent   uint64
	Body     *cp.Body
}

var SpawnPointComponent = NewComponent[SpawnPoint]()
