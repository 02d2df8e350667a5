package selection

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/sceneimport/pkg/errors"
	"github.com/matzehuels/sceneimport/pkg/identity"
	"github.com/matzehuels/sceneimport/pkg/scene"
)

type fakeLookup map[Target]scene.Bounds

func (f fakeLookup) Exists(kind identity.Kind, id string) bool {
	_, ok := f[Target{kind, id}]
	return ok
}

func (f fakeLookup) Bounds(kind identity.Kind, id string) scene.Bounds {
	return f[Target{kind, id}]
}

type recorder struct {
	frames []Target
	last   Camera
	bounds scene.Bounds
}

func (r *recorder) Frame(t Target, b scene.Bounds, cam Camera) {
	r.frames = append(r.frames, t)
	r.last = cam
	r.bounds = b
}

var (
	meshT = Target{identity.KindMesh, "/Root/Body:mesh"}
	matT  = Target{identity.KindMaterial, "/Root/Body:surface0"}
)

func newLookup() fakeLookup {
	return fakeLookup{
		meshT: scene.NewBounds(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}),
		matT:  scene.NewBounds(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2}),
	}
}

func TestSelectExclusive(t *testing.T) {
	vp := &recorder{}
	c := New(newLookup(), vp)

	if _, ok := c.Current(); ok {
		t.Fatal("new controller must have no selection")
	}
	if err := c.Select(meshT.Kind, meshT.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.Select(matT.Kind, matT.ID); err != nil {
		t.Fatal(err)
	}
	cur, ok := c.Current()
	if !ok || cur != matT {
		t.Errorf("Current() = %v, want %v", cur, matT)
	}
	if len(vp.frames) != 2 || vp.bounds != newLookup()[matT] {
		t.Errorf("viewport frames = %v, bounds %v", vp.frames, vp.bounds)
	}
}

func TestSelectUnknown(t *testing.T) {
	vp := &recorder{}
	c := New(newLookup(), vp)
	_ = c.Select(meshT.Kind, meshT.ID)

	err := c.Select(identity.KindMaterial, "/Nope")
	if !errors.Is(err, errors.ErrCodeUnknownIdentity) {
		t.Errorf("Select(unknown) = %v", err)
	}
	if cur, _ := c.Current(); cur != meshT {
		t.Error("a failed select must keep the previous selection")
	}
	if len(vp.frames) != 1 {
		t.Error("a failed select must not re-frame")
	}
}

func TestCameraPerEntry(t *testing.T) {
	vp := &recorder{}
	c := New(newLookup(), vp)

	_ = c.Select(meshT.Kind, meshT.ID)
	if vp.last != DefaultCamera() {
		t.Errorf("first framing = %+v, want default", vp.last)
	}
	c.Orbit(0.5, 0.25)
	c.Zoom(2)
	meshCam := c.Camera(meshT)

	_ = c.Select(matT.Kind, matT.ID)
	if vp.last != DefaultCamera() {
		t.Error("another entry starts from the default camera")
	}

	_ = c.Select(meshT.Kind, meshT.ID)
	if vp.last != meshCam {
		t.Errorf("returning restored %+v, want %+v", vp.last, meshCam)
	}
	if math.Abs(meshCam.RotX-(DefaultRotX+0.5)) > 1e-12 || meshCam.Zoom != 2 {
		t.Errorf("camera = %+v", meshCam)
	}
}

func TestCameraClamps(t *testing.T) {
	c := New(newLookup(), nil)
	c.Orbit(1, 1) // no selection: ignored
	_ = c.Select(meshT.Kind, meshT.ID)

	c.Orbit(10, 0)
	if got := c.Camera(meshT).RotX; got != MaxPitch {
		t.Errorf("pitch = %v, want clamp at %v", got, MaxPitch)
	}
	c.Orbit(-20, 0)
	if got := c.Camera(meshT).RotX; got != -MaxPitch {
		t.Errorf("pitch = %v, want clamp at %v", got, -MaxPitch)
	}
	c.Zoom(1000)
	if got := c.Camera(meshT).Zoom; got != MaxZoom {
		t.Errorf("zoom = %v", got)
	}
	c.Zoom(1e-6)
	if got := c.Camera(meshT).Zoom; got != MinZoom {
		t.Errorf("zoom = %v", got)
	}
	c.Zoom(-1)
	if got := c.Camera(meshT).Zoom; got != MinZoom {
		t.Error("non-positive zoom factors are ignored")
	}
}

func TestRebindDropsDangling(t *testing.T) {
	vp := &recorder{}
	c := New(newLookup(), vp)
	_ = c.Select(matT.Kind, matT.ID)
	c.Zoom(3)

	// Same entries: selection and camera survive.
	c.Rebind(newLookup())
	if cur, ok := c.Current(); !ok || cur != matT || c.Camera(matT).Zoom != 3 {
		t.Error("rebind must keep a selection that still resolves")
	}

	// Material vanished.
	c.Rebind(fakeLookup{meshT: scene.EmptyBounds()})
	if _, ok := c.Current(); ok {
		t.Error("rebind must drop a dangling selection")
	}
	if c.Camera(matT) != DefaultCamera() {
		t.Error("cameras of vanished entries are forgotten")
	}

	c.Clear()
	c.Refresh()
}
