// Package selection tracks the entry currently shown in the preview.
//
// One [Controller] serves all tree views: a selection made in the scene
// view and one made in the material view replace each other. Every entry
// keeps its own orbit camera, so returning to an entry restores the angle
// and zoom it was last inspected with.
//
// The controller never draws. It asks a [Viewport] collaborator to frame
// the selected entry's bounds whenever the selection or its camera changes.
package selection
