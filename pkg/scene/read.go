package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sceneimport/pkg/errors"
)

// Format identifies a scene description encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported scene file %q (want .json, .yaml or .yml)", path)
}

type document struct {
	Root       nodeDoc                 `json:"root" yaml:"root"`
	Meshes     map[string]meshDoc      `json:"meshes,omitempty" yaml:"meshes,omitempty"`
	Materials  map[string]materialDoc  `json:"materials,omitempty" yaml:"materials,omitempty"`
	Animations map[string]animationDoc `json:"animations,omitempty" yaml:"animations,omitempty"`
}

type nodeDoc struct {
	Name        string    `json:"name" yaml:"name"`
	Generated   bool      `json:"generated,omitempty" yaml:"generated,omitempty"`
	Translation []float64 `json:"translation,omitempty" yaml:"translation,omitempty"`
	Rotation    []float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"` // Euler degrees, X then Y then Z
	Scale       []float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Mesh        string    `json:"mesh,omitempty" yaml:"mesh,omitempty"`
	Materials   []string  `json:"materials,omitempty" yaml:"materials,omitempty"` // per-surface overrides, "" keeps the mesh material
	Animations  []string  `json:"animations,omitempty" yaml:"animations,omitempty"`
	Children    []nodeDoc `json:"children,omitempty" yaml:"children,omitempty"`
}

type meshDoc struct {
	ImportID string       `json:"import_id,omitempty" yaml:"import_id,omitempty"`
	Min      []float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max      []float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Surfaces []surfaceDoc `json:"surfaces,omitempty" yaml:"surfaces,omitempty"`
}

type surfaceDoc struct {
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Materials []string `json:"materials,omitempty" yaml:"materials,omitempty"`
}

type materialDoc struct {
	ImportID string `json:"import_id,omitempty" yaml:"import_id,omitempty"`
}

type animationDoc struct {
	Length float64 `json:"length,omitempty" yaml:"length,omitempty"`
	Loop   bool    `json:"loop,omitempty" yaml:"loop,omitempty"`
}

// ReadFile reads a scene description from disk, choosing the decoder from
// the file extension.
func ReadFile(path string) (*Node, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a scene description.
//
// The document names its shared resources once and references them by name
// from nodes, so a mesh used by several nodes decodes to a single *Mesh:
//
//	root:
//	  name: Root
//	  children:
//	    - {name: Body, mesh: M1}
//	    - {name: Hat, mesh: M1, materials: [B], translation: [0, 2, 0]}
//	meshes:
//	  M1: {min: [-1, -1, -1], max: [1, 1, 1], surfaces: [{materials: [A]}]}
//	materials:
//	  A: {}
//	  B: {}
//
// Read returns an INVALID_SCENE error for unknown resource references or a
// missing root.
func Read(r io.Reader, format Format) (*Node, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	return doc.build()
}

func (d *document) build() (*Node, error) {
	if d.Root.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidScene, "scene has no root node")
	}

	materials := make(map[string]*Material, len(d.Materials))
	for name, md := range d.Materials {
		materials[name] = &Material{Name: name, ImportID: md.ImportID}
	}

	animations := make(map[string]*Animation, len(d.Animations))
	for name, ad := range d.Animations {
		animations[name] = &Animation{Name: name, Length: ad.Length, Loop: ad.Loop}
	}

	meshes := make(map[string]*Mesh, len(d.Meshes))
	for name, md := range d.Meshes {
		m := &Mesh{Name: name, ImportID: md.ImportID, Bounds: EmptyBounds()}
		if md.Min != nil || md.Max != nil {
			lo, err := vec3(md.Min, 0)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "mesh %s min", name)
			}
			hi, err := vec3(md.Max, 0)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "mesh %s max", name)
			}
			m.Bounds = NewBounds(lo, hi)
		}
		for i, sd := range md.Surfaces {
			s := Surface{Name: sd.Name}
			for _, ref := range sd.Materials {
				mat, ok := materials[ref]
				if !ok {
					return nil, errors.New(errors.ErrCodeInvalidScene, "mesh %s surface %d: unknown material %q", name, i, ref)
				}
				s.Materials = append(s.Materials, mat)
			}
			m.Surfaces = append(m.Surfaces, s)
		}
		meshes[name] = m
	}

	return d.Root.build(meshes, materials, animations)
}

func (nd nodeDoc) build(meshes map[string]*Mesh, materials map[string]*Material, animations map[string]*Animation) (*Node, error) {
	n := &Node{Name: nd.Name, Generated: nd.Generated}

	t, err := nd.transform()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "node %s", nd.Name)
	}
	n.Transform = t

	if nd.Mesh != "" {
		m, ok := meshes[nd.Mesh]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScene, "node %s: unknown mesh %q", nd.Name, nd.Mesh)
		}
		n.Mesh = m
	}
	for i, ref := range nd.Materials {
		if n.Mesh == nil || i >= len(n.Mesh.Surfaces) {
			return nil, errors.New(errors.ErrCodeInvalidScene, "node %s: material override %d has no surface", nd.Name, i)
		}
		var mat *Material
		if ref != "" {
			var ok bool
			if mat, ok = materials[ref]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidScene, "node %s: unknown material %q", nd.Name, ref)
			}
		}
		n.MaterialOverrides = append(n.MaterialOverrides, mat)
	}
	for _, ref := range nd.Animations {
		a, ok := animations[ref]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScene, "node %s: unknown animation %q", nd.Name, ref)
		}
		n.Animations = append(n.Animations, a)
	}

	for _, cd := range nd.Children {
		c, err := cd.build(meshes, materials, animations)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

func (nd nodeDoc) transform() (mgl64.Mat4, error) {
	tr, err := vec3(nd.Translation, 0)
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("translation: %w", err)
	}
	rot, err := vec3(nd.Rotation, 0)
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("rotation: %w", err)
	}
	sc, err := vec3(nd.Scale, 1)
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("scale: %w", err)
	}

	m := mgl64.Translate3D(tr[0], tr[1], tr[2])
	m = m.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(rot[2])))
	m = m.Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(rot[1])))
	m = m.Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(rot[0])))
	m = m.Mul4(mgl64.Scale3D(sc[0], sc[1], sc[2]))
	return m, nil
}

// vec3 converts an optional 3-element list, returning def on every axis
// when the list is absent.
func vec3(v []float64, def float64) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec3{def, def, def}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
}
