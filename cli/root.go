// Package cli wires configuration, the analysis chain and the exporters
// into the repo-analyzer command.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"repo_analyzer/config"
)

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
	stdout     io.Writer
	stderr     io.Writer
}

func (o *rootOptions) load() (config.Config, *log.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := log.New(o.stderr, "", log.LstdFlags|log.Lshortfile)
	return cfg, logger, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "repo-analyzer",
		Short:         "Analyze a GitHub repository with an LLM and export the reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to config.json or config.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable info logs")

	cmd.AddCommand(analyzeCmd(opts), serveCmd(opts))
	return cmd
}
