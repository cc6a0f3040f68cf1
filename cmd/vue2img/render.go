package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Drelf2018/vue2img/pkg/app"
	"github.com/Drelf2018/vue2img/pkg/config"
	"github.com/Drelf2018/vue2img/pkg/data"
	"github.com/Drelf2018/vue2img/pkg/observability"
)

// inputFlags are shared by every command that mounts a template.
type inputFlags struct {
	dataFile string
	pairs    []string
	width    float64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dataFile, "data", "d", "", "data file (.json, .yaml or .hcl)")
	cmd.Flags().StringArrayVar(&f.pairs, "set", nil, "set a data value, key=value (repeatable)")
	cmd.Flags().Float64VarP(&f.width, "width", "w", 0, "canvas width in pixels (overrides render.width)")
}

// mount reads the template at path and builds an App with the data
// from --data and --set, --set winning.
func (f *inputFlags) mount(cfg *config.Config, path string) (*app.App, error) {
	tmpl, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	values := map[string]any{}
	if f.dataFile != "" {
		if values, err = data.Load(f.dataFile); err != nil {
			return nil, err
		}
	}
	pairs, err := data.ParsePairs(f.pairs)
	if err != nil {
		return nil, err
	}
	values = data.Merge(values, pairs)

	opts := app.OptionsFromConfig(cfg)
	if f.width > 0 {
		opts.Width = f.width
	}
	opts.BaseDir = filepath.Dir(path)
	opts.Logger = observability.GetLogger()
	return app.New(opts).Mount(string(tmpl), values), nil
}

func newRenderCmd(cfg *config.Config) *cobra.Command {
	var (
		in     inputFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template to a PNG file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := in.mount(cfg, args[0])
			if err != nil {
				return err
			}
			if err := a.SavePNG(cmd.Context(), output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s to %s\n", args[0], output)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "out.png", "output PNG file")
	return cmd
}

func newDumpCmd(cfg *config.Config) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "dump <template>",
		Short: "Print the laid-out box tree of a template.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := in.mount(cfg, args[0])
			if err != nil {
				return err
			}
			l, err := a.Layout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), l.Dump())
			return nil
		},
	}
	in.register(cmd)
	return cmd
}
