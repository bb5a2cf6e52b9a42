// Package cli provides the command-line interface of rpcdoc-gen.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rpavlik/kanboard-documentation/internal/config"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath string
	Dir        string
	EnvFile    string
}

// Execute creates and runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "rpcdoc-gen",
		Short: "Generate typed stubs and an OpenRPC document from procedure docs",
		Long: `rpcdoc-gen reads Kanboard-style *_procedures.md pages and emits typed
client stubs plus an OpenRPC description of every documented method.

Example usage:
  rpcdoc-gen init                         # Write a default rpcdoc.yaml
  rpcdoc-gen generate --source docs/api   # Generate stubs and openrpc.json
  rpcdoc-gen validate openrpc.json        # Check a generated document`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default is ./rpcdoc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "d", "", "directory searched for rpcdoc.yaml and .env (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file with RPCDOC_* overrides (default is ./.env)")

	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newInitCommand(opts))

	return rootCmd
}

// loadConfig resolves the file config, then applies .env and environment
// overrides. Flags are applied by the caller.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	dir := o.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	var (
		cfg *config.Config
		err error
	)
	if o.ConfigPath != "" {
		if _, statErr := os.Stat(o.ConfigPath); statErr != nil {
			return nil, fmt.Errorf("read config: %w", statErr)
		}
		cfg, err = config.Load(filepath.Clean(o.ConfigPath))
	} else {
		cfg, err = config.LoadFromDir(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	envFile := o.EnvFile
	if envFile == "" {
		envFile = filepath.Join(dir, ".env")
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	return cfg, nil
}
