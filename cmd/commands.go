package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pagechat/models"
)

func newScrapeCmd(load func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Fetch a page and add it to the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.session.Scrape(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stored %s\n", record.URL)
			fmt.Fprintf(out, "Title: %s\n", record.Title)
			fmt.Fprintf(out, "Content: %d characters, %d links\n", len([]rune(record.Body)), len(record.Links))
			return nil
		},
	}
}

func newAskCmd(load func() (*app, error)) *cobra.Command {
	var urls []string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about cached pages",
		Long: `Ask a question about cached pages. Without --url every cached page is
used as context.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			selected := urls
			if len(selected) == 0 {
				for _, r := range a.session.Contents() {
					selected = append(selected, r.URL)
				}
			}

			result, _ := a.session.Ask(cmd.Context(), strings.Join(args, " "), selected)
			if !result.Success {
				return result.Err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Response)
			if len(result.Sources) > 0 {
				fmt.Fprintf(out, "\nSources: %s\n", strings.Join(result.Sources, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&urls, "url", nil, "cached page to use as context (repeatable)")
	return cmd
}

func newContentsCmd(load func() (*app, error)) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "contents",
		Short: "List cached pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				if err := a.session.ClearContents(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared cached pages.")
				return nil
			}

			records := a.session.Contents()
			if len(records) == 0 {
				fmt.Fprintln(out, "No cached pages.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s  %s  (%s)\n", formatMillis(r.FetchedAt), r.URL, r.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every cached page")
	return cmd
}

func newHistoryCmd(load func() (*app, error)) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if clearAll {
				if err := a.session.ClearHistory(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Cleared chat history.")
				return nil
			}

			messages := a.session.History()
			if len(messages) == 0 {
				fmt.Fprintln(out, "No messages yet.")
				return nil
			}
			for _, m := range messages {
				printMessage(out, m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every message")
	return cmd
}

func newKeyCmd(load func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage stored API keys (firecrawl, openai)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <firecrawl|openai> [value]",
		Short: "Store an API key; an empty value removes it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := a.session.SaveCredential(args[0], value); err != nil {
				return err
			}
			if strings.TrimSpace(value) == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s key.\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s key.\n", args[0])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <firecrawl|openai>",
		Short: "Show a stored API key, masked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := a.session.Credential(args[0])
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s key stored.\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], maskKey(key))
			return nil
		},
	})
	return cmd
}

func printMessage(out io.Writer, m models.Message) {
	who := "assistant"
	if m.IsUser {
		who = "you"
	}
	fmt.Fprintf(out, "[%s] %s: %s\n", formatMillis(m.Timestamp), who, m.Content)
	if len(m.Sources) > 0 {
		fmt.Fprintf(out, "  sources: %s\n", strings.Join(m.Sources, ", "))
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

// maskKey keeps the first and last four characters of long keys.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
