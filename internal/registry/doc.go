// Package registry catalogues the element kinds the elix command can build.
//
// Each kind names a behavior composition from pkg/behaviors, the tag its
// host node gets, and demo content embedded with the binary. The serve and
// render commands look kinds up by name:
//
//	kind, err := registry.Lookup("list-box")
//	if err != nil {
//	    return err
//	}
//	content, err := kind.DemoContent()
//	el, err := kind.New(sched, element.Options{}, content)
//
// # Demo Content
//
// Demo content lives in components/<name>.yaml, in the template description
// format read by template.Parse.
package registry
