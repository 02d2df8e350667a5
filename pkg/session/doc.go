// Package session ties the import settings model together for one asset.
//
// A [Session] reads a scene description, walks it into an override store
// and tree projections, and carries the state an editor needs between
// edits: the single selection, the list of export actions and the draft of
// unsaved changes.
//
// # Lifecycle
//
//	s, err := session.Open(ctx, "hero.yaml", session.Options{Drafts: store})
//	if err != nil {
//	    return err
//	}
//	_ = s.SetOverrideText(identity.KindMaterial, "/Root/Body:surface0", "roughness", "0.4")
//	_, _ = s.BeginAction(reimport.ActionSaveMesh)
//	_ = s.SetActionPath(reimport.ActionSaveMesh, "/Root/Body:mesh", "body.mesh")
//	_ = s.SaveDraft(ctx)
//
//	cfg, err := s.Reimport(ctx, reimport.FileTrigger{})
//
// Opening restores state in two layers: the import configuration written
// by the last re-import, then the draft when one exists. [Session.Rewalk]
// rebuilds everything from the scene while keeping explicit overrides by
// identity, so a changed scene never silently loses settings; overrides
// whose identity vanished are listed by [Session.Issues]. [Session.Reload]
// reads the asset from disk first.
//
// An animation-only session edits nodes and animations. The mesh and
// material sections it loaded are written back as they were.
package session
