package settings

import (
	"slices"

	"github.com/matzehuels/sceneimport/pkg/errors"
)

// Category selects the option schema of a sub-resource.
type Category string

const (
	CategoryNode          Category = "node"
	CategoryMeshNode      Category = "mesh_node"
	CategoryAnimationNode Category = "animation_node"
	CategoryMesh          Category = "mesh"
	CategoryMaterial      Category = "material"
	CategoryAnimation     Category = "animation"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryNode,
	CategoryMeshNode,
	CategoryAnimationNode,
	CategoryMesh,
	CategoryMaterial,
	CategoryAnimation,
}

// Option describes one configurable key of a category.
type Option struct {
	Name    string
	Kind    Kind
	Default Value

	// Choices lists the allowed values of an enum option.
	Choices []string

	// Inheritable options take their default from the nearest ancestor's
	// effective settings when the ancestor's schema has the same option.
	Inheritable bool

	Description string
}

// Check validates that v can be stored under this option.
func (o Option) Check(v Value) error {
	if v.Kind() != o.Kind {
		return errors.New(errors.ErrCodeInvalidValue, "option %q wants %s, got %s", o.Name, o.Kind, v.Kind())
	}
	if o.Kind == KindEnum && !slices.Contains(o.Choices, v.AsText()) {
		return errors.New(errors.ErrCodeInvalidValue, "option %q: %q is not one of %v", o.Name, v.AsText(), o.Choices)
	}
	return nil
}

// Schema is the ordered option set of a category.
type Schema struct {
	Category Category
	options  []Option
	index    map[string]int
}

// NewSchema builds a schema, rejecting duplicate names and defaults that
// fail their own option's check.
func NewSchema(cat Category, opts ...Option) (*Schema, error) {
	s := &Schema{Category: cat, index: make(map[string]int, len(opts))}
	for _, o := range opts {
		if _, dup := s.index[o.Name]; dup {
			return nil, errors.New(errors.ErrCodeInternal, "%s: duplicate option %q", cat, o.Name)
		}
		if err := o.Check(o.Default); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: bad default", cat)
		}
		s.index[o.Name] = len(s.options)
		s.options = append(s.options, o)
	}
	return s, nil
}

func mustSchema(cat Category, opts ...Option) *Schema {
	s, err := NewSchema(cat, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Options returns the options in declaration order.
func (s *Schema) Options() []Option { return slices.Clone(s.options) }

// Lookup returns the named option.
func (s *Schema) Lookup(name string) (Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Has reports whether the schema declares name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Keys returns the option names in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.options))
	for i, o := range s.options {
		keys[i] = o.Name
	}
	return keys
}

// Validate checks that name exists and v fits it.
func (s *Schema) Validate(name string, v Value) error {
	o, ok := s.Lookup(name)
	if !ok {
		return errors.New(errors.ErrCodeUnknownOption, "%s has no option %q", s.Category, name)
	}
	return o.Check(v)
}

// Base returns the dense bag of the schema's own defaults.
func (s *Schema) Base() Bag {
	b := make(Bag, len(s.options))
	for _, o := range s.options {
		b[o.Name] = o.Default
	}
	return b
}

var (
	lodPolicy = Option{
		Name:        "lods/policy",
		Kind:        KindEnum,
		Default:     Enum("auto"),
		Choices:     []string{"auto", "none", "aggressive"},
		Inheritable: true,
		Description: "Level-of-detail generation policy; cascades to descendant meshes.",
	}
	castShadow = Option{
		Name:        "shadows/cast",
		Kind:        KindBool,
		Default:     Bool(true),
		Inheritable: true,
		Description: "Cast shadows; cascades to descendant nodes.",
	}
	nodeOptions = []Option{
		{Name: "import/skip_import", Kind: KindBool, Default: Bool(false), Description: "Drop the node and its subtree from the imported scene."},
		{Name: "save_to_file/enabled", Kind: KindBool, Default: Bool(false), Description: "Save the subtree as a separate scene resource."},
		{Name: "save_to_file/path", Kind: KindPath, Default: Path(""), Description: "Target path of the separate scene resource."},
		lodPolicy,
		castShadow,
	}
	saveToFile = []Option{
		{Name: "save_to_file/enabled", Kind: KindBool, Default: Bool(false), Description: "Save as a standalone resource."},
		{Name: "save_to_file/path", Kind: KindPath, Default: Path(""), Description: "Target path of the standalone resource."},
	}
	tristate = []string{"default", "enable", "disable"}
)

// builtin holds the schemas of every category.
var builtin = map[Category]*Schema{
	CategoryNode: mustSchema(CategoryNode, nodeOptions...),
	CategoryMeshNode: mustSchema(CategoryMeshNode, append(slices.Clone(nodeOptions),
		Option{Name: "generate/physics", Kind: KindBool, Default: Bool(false), Description: "Generate a physics body for the mesh instance."},
		Option{Name: "physics/body_type", Kind: KindEnum, Default: Enum("static"), Choices: []string{"static", "dynamic", "area"}},
		Option{Name: "physics/shape_type", Kind: KindEnum, Default: Enum("decompose_convex"),
			Choices: []string{"decompose_convex", "simple_convex", "trimesh", "box", "sphere", "cylinder", "capsule"}},
	)...),
	CategoryAnimationNode: mustSchema(CategoryAnimationNode, append(slices.Clone(nodeOptions),
		Option{Name: "optimizer/enabled", Kind: KindBool, Default: Bool(true), Inheritable: true, Description: "Optimize animation tracks; cascades to clips."},
		Option{Name: "import_tracks/output", Kind: KindEnum, Default: Enum("if_present"), Choices: []string{"if_present", "if_present_for_all", "never"}},
	)...),
	CategoryMesh: mustSchema(CategoryMesh, append(slices.Clone(saveToFile),
		Option{Name: "generate/shadow_meshes", Kind: KindEnum, Default: Enum("default"), Choices: tristate},
		Option{Name: "generate/lightmap_uv", Kind: KindEnum, Default: Enum("default"), Choices: tristate},
		Option{Name: "generate/lods", Kind: KindEnum, Default: Enum("default"), Choices: tristate},
		lodPolicy,
		Option{Name: "lods/normal_merge_angle", Kind: KindNumber, Default: Number(60), Description: "Degrees."},
	)...),
	CategoryMaterial: mustSchema(CategoryMaterial,
		Option{Name: "use_external/enabled", Kind: KindBool, Default: Bool(false), Description: "Use a material saved outside the scene."},
		Option{Name: "use_external/path", Kind: KindPath, Default: Path(""), Description: "Path of the external material."},
		Option{Name: "albedo_color", Kind: KindColor, Default: RGBA(Color{1, 1, 1, 1})},
		Option{Name: "roughness", Kind: KindNumber, Default: Number(1)},
		Option{Name: "metallic", Kind: KindNumber, Default: Number(0)},
		Option{Name: "shading_mode", Kind: KindEnum, Default: Enum("per_pixel"), Choices: []string{"unshaded", "per_pixel", "per_vertex"}},
		Option{Name: "name_override", Kind: KindString, Default: String("")},
	),
	CategoryAnimation: mustSchema(CategoryAnimation, append(slices.Clone(saveToFile),
		Option{Name: "settings/loop_mode", Kind: KindEnum, Default: Enum("none"), Choices: []string{"none", "linear", "pingpong"}},
		Option{Name: "slices/amount", Kind: KindNumber, Default: Number(0)},
		Option{Name: "optimizer/enabled", Kind: KindBool, Default: Bool(true), Inheritable: true},
		Option{Name: "optimizer/max_velocity_error", Kind: KindNumber, Default: Number(0.01)},
	)...),
}

// SchemaFor returns the built-in schema of cat.
func SchemaFor(cat Category) (*Schema, bool) {
	s, ok := builtin[cat]
	return s, ok
}

// ParseCategory converts a category name.
func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if _, ok := builtin[c]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown category %q", name)
	}
	return c, nil
}
