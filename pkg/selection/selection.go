package selection

import (
	"math"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/scene"
)

// Camera limits and defaults for the per-entry preview orbit.
const (
	DefaultRotX = -math.Pi / 4
	DefaultRotY = -math.Pi / 4
	DefaultZoom = 1.0

	MinZoom  = 0.1
	MaxZoom  = 10.0
	MaxPitch = math.Pi / 2
)

// Target is a selected (kind, id) pair.
type Target struct {
	Kind identity.Kind `json:"kind"`
	ID   string        `json:"id"`
}

// Camera is the preview orbit of one entry.
type Camera struct {
	RotX float64 `json:"rot_x"` // pitch, radians
	RotY float64 `json:"rot_y"` // yaw, radians
	Zoom float64 `json:"zoom"`
}

// DefaultCamera returns the framing used the first time an entry is shown.
func DefaultCamera() Camera {
	return Camera{RotX: DefaultRotX, RotY: DefaultRotY, Zoom: DefaultZoom}
}

// Lookup answers whether an entry exists and where it is.
type Lookup interface {
	Exists(kind identity.Kind, id string) bool
	Bounds(kind identity.Kind, id string) scene.Bounds
}

// Viewport is the preview collaborator. Frame is called whenever the
// framing of the current selection changes.
type Viewport interface {
	Frame(t Target, bounds scene.Bounds, cam Camera)
}

// Controller tracks the single selection shared by all tree views and the
// preview. Selecting any entry replaces the previous selection, whatever
// its kind.
//
// Controller is not safe for concurrent use.
type Controller struct {
	lookup   Lookup
	viewport Viewport

	current *Target
	cameras map[Target]Camera
}

// New returns a controller with no selection. viewport may be nil.
func New(lookup Lookup, viewport Viewport) *Controller {
	return &Controller{
		lookup:   lookup,
		viewport: viewport,
		cameras:  make(map[Target]Camera),
	}
}

// Select makes (kind, id) the current selection and re-frames the preview
// on it with the entry's last camera. It fails with UNKNOWN_IDENTITY, and
// leaves the selection unchanged, when the entry does not exist.
func (c *Controller) Select(kind identity.Kind, id string) error {
	if !c.lookup.Exists(kind, id) {
		return errors.New(errors.ErrCodeUnknownIdentity, "no %s with id %q", kind, id)
	}
	t := Target{Kind: kind, ID: id}
	c.current = &t
	c.frame()
	return nil
}

// Current returns the selection, if any.
func (c *Controller) Current() (Target, bool) {
	if c.current == nil {
		return Target{}, false
	}
	return *c.current, true
}

// Clear drops the selection. Stored cameras are kept.
func (c *Controller) Clear() { c.current = nil }

// Camera returns the stored camera of t, or the default framing.
func (c *Controller) Camera(t Target) Camera {
	if cam, ok := c.cameras[t]; ok {
		return cam
	}
	return DefaultCamera()
}

// Orbit rotates the current entry's camera by the given angles. The pitch
// is clamped to straight up or down. It is a no-op without a selection.
func (c *Controller) Orbit(dx, dy float64) {
	if c.current == nil {
		return
	}
	cam := c.Camera(*c.current)
	cam.RotX = clamp(cam.RotX+dx, -MaxPitch, MaxPitch)
	cam.RotY = math.Remainder(cam.RotY+dy, 2*math.Pi)
	c.cameras[*c.current] = cam
	c.frame()
}

// Zoom scales the current entry's zoom factor, clamped to [MinZoom, MaxZoom].
func (c *Controller) Zoom(factor float64) {
	if c.current == nil || factor <= 0 {
		return
	}
	cam := c.Camera(*c.current)
	cam.Zoom = clamp(cam.Zoom*factor, MinZoom, MaxZoom)
	c.cameras[*c.current] = cam
	c.frame()
}

// Refresh re-frames the preview on the current selection, for periodic
// view updates.
func (c *Controller) Refresh() { c.frame() }

// Rebind switches to a new lookup after a re-walk. A selection whose entry
// no longer exists is dropped so the controller never holds a dangling
// target; cameras of vanished entries are forgotten.
func (c *Controller) Rebind(lookup Lookup) {
	c.lookup = lookup
	for t := range c.cameras {
		if !lookup.Exists(t.Kind, t.ID) {
			delete(c.cameras, t)
		}
	}
	if c.current != nil && !lookup.Exists(c.current.Kind, c.current.ID) {
		c.current = nil
		return
	}
	c.frame()
}

func (c *Controller) frame() {
	if c.current == nil || c.viewport == nil {
		return
	}
	t := *c.current
	c.viewport.Frame(t, c.lookup.Bounds(t.Kind, t.ID), c.Camera(t))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
