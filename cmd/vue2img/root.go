package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Drelf2018/vue2img/pkg/config"
	"github.com/Drelf2018/vue2img/pkg/observability"
)

// Version is set at build time:
// go build -ldflags "-X main.Version=1.0.0" ./cmd/vue2img
var Version = "dev"

// newRootCmd builds the command tree. The returned config pointer is
// filled in by PersistentPreRunE before any subcommand runs.
func newRootCmd() (*cobra.Command, *config.Config) {
	var cfgFile string
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "vue2img",
		Short:         "Render Vue-style templates to images.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return err
			}
			*cfg = *loaded
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting vue2img", zap.String("version", Version))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./vue2img.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRenderCmd(cfg), newDumpCmd(cfg), newVersionCmd())
	return rootCmd, cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

func main() {
	rootCmd, _ := newRootCmd()
	err := rootCmd.Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
