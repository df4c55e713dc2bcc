package registry

import (
	"embed"
	"io/fs"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/template"
)

//go:embed components
var embeddedComponents embed.FS

// EmbeddedFS returns the embedded demo content.
func EmbeddedFS() fs.FS {
	return embeddedComponents
}

// demoContent parses the embedded demo content for name.
func demoContent(name string) ([]*dom.Node, error) {
	data, err := embeddedComponents.ReadFile("components/" + name + ".yaml")
	if err != nil {
		return nil, errors.New("E003").WithDetailf("no demo content for %q", name).Wrap(err)
	}
	t, err := template.Parse(data)
	if err != nil {
		return nil, err
	}
	return t.Instantiate().Root.Children, nil
}
