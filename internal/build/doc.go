// Package build renders one element from files to HTML.
//
// A build resolves an element kind from the registry, optionally wraps its
// template with a template file, seeds its content and state from YAML
// files, renders it once on a private loop, and returns the HTML together
// with what a snapshot store needs to keep it.
//
// # Usage
//
//	result, err := build.New(build.Options{
//	    Kind:    "list-box",
//	    Content: "items.yaml",
//	    State:   "state.yaml",
//	}).Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.HTML)
//
// # State Files
//
// A state file is a YAML mapping of state keys to values:
//
//	selectedIndex: 2
//	selectionWraps: true
//
// Content is not set through the state file; use a content file, written in
// the template description format.
package build
