// Package cmd is the pagechat command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// NewRootCmd builds the command tree. Each call returns independent commands
// and flags.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "pagechat",
		Short: "Chat with the content of web pages",
		Long: `pagechat fetches web pages, keeps their text in a local cache and answers
questions about them, either through a language model or with a built-in
keyword responder when no model is configured.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/pagechat/config.yaml)")

	load := func() (*app, error) {
		return loadApp(configPath)
	}

	root.AddCommand(
		newServeCmd(load),
		newScrapeCmd(load),
		newAskCmd(load),
		newContentsCmd(load),
		newHistoryCmd(load),
		newKeyCmd(load),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagechat %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
