package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elix-dev/elix/internal/registry"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/render"
	"github.com/elix-dev/elix/pkg/server"
	"github.com/elix-dev/elix/pkg/template"
)

func serveCmd(load loader) *cobra.Command {
	var (
		kindName string
		content  string
		address  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live element",
		Long: `Serve one element kind over HTTP and WebSocket.

Every page view renders a fresh element. Every WebSocket connection gets its
own live element, driven by the browser's keyboard and mouse events.

Examples:
  elix serve --kind=list-box
  elix serve --kind=list-box --content=fruit.yaml --address=:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			kind, err := registry.Lookup(kindName)
			if err != nil {
				return err
			}
			newContent, err := contentSource(kind, content)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Options{
				Config: cfg,
				Title:  kind.Tag,
				Logger: slog.Default(),
				NewElement: func(sched *render.Scheduler, opts element.Options) (*element.Element, error) {
					nodes, err := newContent()
					if err != nil {
						return nil, err
					}
					return kind.New(sched, opts, nodes)
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			info("Serving %s on %s", kind.Tag, cfg.Server.Address)
			return srv.ListenAndServe(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&kindName, "kind", "k", "list-box", "Element kind to serve")
	f.StringVar(&content, "content", "", "Content file (default: the kind's demo content)")
	f.StringVarP(&address, "address", "a", "", "Listen address (default from elix.yaml)")

	return cmd
}

// contentSource returns a function producing fresh content nodes for each
// element: copies of the content file when one is given, the kind's demo
// content otherwise.
func contentSource(kind registry.Kind, path string) (func() ([]*dom.Node, error), error) {
	if path == "" {
		return kind.DemoContent, nil
	}
	t, err := template.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return func() ([]*dom.Node, error) {
		return t.Instantiate().Root.Children, nil
	}, nil
}
