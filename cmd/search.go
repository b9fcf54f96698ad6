package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"opportunity-radar/prioritize"
)

func newSearchCmd() *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fetch news for a query and print the events as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), cfgFile)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			events, err := a.news.Search(cmd.Context(), query, domainOr(domain, query))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "industry or product domain (default: the query)")
	return cmd
}

func newPrioritizeCmd() *cobra.Command {
	var (
		domain     string
		maxActions int
	)
	cmd := &cobra.Command{
		Use:   "prioritize <query>",
		Short: "Search, then print prioritized actions as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), cfgFile)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			d := domainOr(domain, query)
			events, err := a.news.Search(cmd.Context(), query, d)
			if err != nil {
				return err
			}
			result := a.engine.Prioritize(cmd.Context(), prioritize.Request{
				Events:     events,
				Domain:     d,
				MaxActions: maxActions,
			})
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "industry or product domain (default: the query)")
	cmd.Flags().IntVar(&maxActions, "max", 0, "number of actions (default from config)")
	return cmd
}

func domainOr(domain, query string) string {
	if d := strings.TrimSpace(domain); d != "" {
		return d
	}
	return strings.TrimSpace(query)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
