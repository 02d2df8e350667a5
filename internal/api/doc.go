// Package api serves an editing session as a JSON HTTP API.
//
// The inspector API lets an external editor browse the projected trees,
// read effective settings, edit overrides, drive the selection and fetch
// the import configuration:
//
//	GET    /version
//	GET    /issues
//	GET    /config                               TOML, 409 while an action is pending
//	POST   /rewalk                               reload the asset, returns issues
//	GET    /entries/{kind}
//	GET    /entries/{kind}/{id}
//	PUT    /entries/{kind}/{id}/overrides/{key}  {"value": ...}
//	DELETE /entries/{kind}/{id}/overrides/{key}
//	GET    /selection
//	PUT    /selection                            {"kind": ..., "id": ...}
//	POST   /selection/orbit                      {"dx": ..., "dy": ...}
//	POST   /selection/zoom                       {"factor": ...}
//	GET    /trees/{view}
//	GET    /actions
//	POST   /actions/{action}
//	PUT    /actions/{action}/{id}                {"path": ...}
//	DELETE /actions/{action}/{id}
//
// Identities and option keys contain slashes and must be path-escaped,
// e.g. /entries/node/%2FRoot%2FBody.
//
// Errors are returned as {"code": ..., "message": ...}. Unknown
// identities map to 404, rejected options and values to 422, pending
// actions and identity collisions to 409.
package api
