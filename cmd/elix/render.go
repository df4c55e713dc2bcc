package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/elix-dev/elix/internal/build"
	"github.com/elix-dev/elix/internal/config"
	"github.com/elix-dev/elix/pkg/snapshot"
)

func renderCmd(load loader) *cobra.Command {
	var (
		opts build.Options
		out  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an element to HTML",
		Long: `Render one element and print its HTML, or store it as a snapshot.

The element kind comes from the built-in registry. Content and state are
read from YAML files.

Examples:
  elix render --kind=list-box --demo
  elix render --kind=list-box --content=fruit.yaml --state=state.yaml
  elix render --kind=disclosure --demo --out=home/disclosure`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			opts.MaxPasses = cfg.State.MaxPasses

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := build.New(opts).Build(ctx)
			if err != nil {
				return err
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(result.HTML)
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if err := store.Put(ctx, result.Snapshot(out, time.Now())); err != nil {
				return err
			}
			success("Stored %s (%s) in %s", out, result.Element, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Kind, "kind", "k", build.DefaultKind, "Element kind to render")
	f.StringVar(&opts.Tag, "tag", "", "Override the host tag name")
	f.StringVarP(&opts.Template, "template", "t", "", "Template file appended to the kind's template")
	f.StringVar(&opts.Content, "content", "", "Content file")
	f.BoolVar(&opts.Demo, "demo", false, "Use the kind's demo content when --content is not set")
	f.StringVarP(&opts.State, "state", "s", "", "State file applied before rendering")
	f.BoolVar(&opts.Pretty, "pretty", false, "Indent the HTML")
	f.StringVarP(&out, "out", "o", "", "Store the result as a snapshot under this key")

	return cmd
}

// openStore returns the configured snapshot store: S3 when a bucket is set,
// the snapshot directory otherwise.
func openStore(cfg *config.Config) (snapshot.Store, error) {
	if s3cfg := cfg.Snapshot.S3; s3cfg.Enabled() {
		client := snapshot.NewS3Client(snapshot.S3Config{
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			PathStyle: s3cfg.PathStyle,
		})
		return snapshot.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), nil
	}
	store, err := snapshot.NewDiskStore(cfg.SnapshotDir())
	if err != nil {
		return nil, err
	}
	return store, nil
}
