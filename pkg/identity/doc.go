// Package identity derives stable identifiers for scene sub-resources.
//
// An identity is a string key that survives re-imports and is unique
// within its [Kind]. Node identities are scene paths joined with "/";
// mesh and material identities append a ":"-prefixed suffix that encodes
// the surface and slot. Both separators are illegal in node names (see
// errors.IllegalNameChars) so an identity can always be split back into
// its parts.
//
// Resources may declare their own import id, which wins over the derived
// one. Resources with neither a declared id nor a resolvable owner node
// get no identity and stay preview-only.
//
// A [Registry] guards uniqueness during one walk: the first owner of an id
// keeps it and later claimants are reported as [Conflict] values.
package identity
