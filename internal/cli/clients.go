package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/meetingkit/pkg/clients"
)

// clientsCommand creates the registry inspection command.
func (c *CLI) clientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Create clients and inspect the registry",
	}

	cmd.AddCommand(c.clientsStatsCommand())
	cmd.AddCommand(c.clientsBatchCommand())

	return cmd
}

// clientsStatsCommand creates the "clients stats" subcommand.
func (c *CLI) clientsStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [kind...]",
		Short: "Create the given kinds and print registry statistics",
		Long: `Create each kind in order (twice-listed kinds hit the cache) and print the
registry counters, options and cached kinds. Any failure aborts the command.`,
		ValidArgsFunction: completeKinds,
		Example: `  meetingkit clients stats webhook webhook
  meetingkit clients stats meeting user --config meetingkit.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, respCache, err := c.newRegistry(cfg)
			if err != nil {
				return err
			}
			defer respCache.Close()

			out := cmd.OutOrStdout()
			sw := startStopwatch(loggerFromContext(cmd.Context()))
			for _, label := range args {
				kind, err := clients.ParseKind(label)
				if err != nil {
					return err
				}
				cached := reg.IsCreated(kind)
				if _, err := reg.Create(kind); err != nil {
					return err
				}
				printInfo(out, "%s %s", kind, cacheStatus(cached && reg.Options().CacheEnabled))
			}
			if len(args) > 0 {
				sw.done("Created %d clients", len(args))
			}

			printCreationStats(out, reg.CreationStats())
			return nil
		},
	}
}

// clientsBatchCommand creates the "clients batch" subcommand.
func (c *CLI) clientsBatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch kind...",
		Short: "Create several kinds, reporting each outcome",
		Long: `Create every listed kind and print one line per kind. Failed kinds are
reported but do not make the command fail.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, respCache, err := c.newRegistry(cfg)
			if err != nil {
				return err
			}
			defer respCache.Close()

			out := cmd.OutOrStdout()
			results := reg.BatchCreate(args...)
			printBatch(out, args, results)

			failed := 0
			for _, res := range results {
				if res.Failed() {
					failed++
				}
			}
			if failed > 0 {
				printWarning(out, "%d of %d kinds failed", failed, len(results))
			}
			return nil
		},
	}
}

// completeKinds offers the client kind labels for shell completion.
func completeKinds(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	kinds := clients.Kinds()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.String()
	}
	return labels, cobra.ShellCompDirectiveNoFileComp
}
