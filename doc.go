// Package wfcloud migrates Alteryx workflow documents from local file
// tools to cloud connectors.
//
// Nodes using DbFileInput/DbFileOutput are rewritten into UniversalInput/
// UniversalOutput according to a rule set; every other node is carried over
// unchanged. The root package exposes the Service facade that loads
// documents, converts them and writes the result next to the source:
//
//	srv, _ := wfcloud.New()
//	set, _ := srv.LoadRules(ctx)
//	result, err := srv.Convert(ctx, set, "flow.json", "")
//
// The pure transformation lives in service/migrator and can be used without
// any I/O.
package wfcloud
