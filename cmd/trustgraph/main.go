package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           "trustgraph",
		Short:         "Trust network analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "configs/trustgraph.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.input, "input", "", "Input CSV of from,to,weight[,timestamp] rows")
	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "Edge source (csv, neo4j)")
	rootCmd.PersistentFlags().StringVar(&opts.summary, "summary", "", "Write a JSON run summary to this path")
	rootCmd.PersistentFlags().BoolVar(&opts.stats, "stats", false, "Print the run statistics to stderr")

	var (
		format   string
		high     float64
		low      float64
		k        int
		textfile string
	)
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and print the reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				f := cmd.Flags()
				if f.Changed("high") {
					a.cfg.Analysis.HighTrust = high
				}
				if f.Changed("low") {
					a.cfg.Analysis.LowTrust = low
				}
				if f.Changed("representatives") {
					a.cfg.Analysis.Representatives = k
				}
				if f.Changed("format") {
					a.cfg.Output.Format = format
				}
				if f.Changed("metrics-textfile") {
					a.cfg.Metrics.Textfile = textfile
				}
				return runAnalyze(ctx, a, cmd.OutOrStdout())
			})
		},
	}
	analyzeCmd.Flags().Float64Var(&high, "high", 5, "High trust threshold")
	analyzeCmd.Flags().Float64Var(&low, "low", 0, "Low trust threshold")
	analyzeCmd.Flags().IntVarP(&k, "representatives", "k", 10, "Number of representatives")
	analyzeCmd.Flags().StringVar(&format, "format", "text", "Report format (text, json, yaml)")
	analyzeCmd.Flags().StringVar(&textfile, "metrics-textfile", "", "Write Prometheus metrics to this textfile")

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "List weakly-connected components and their sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				return runComponents(ctx, a, cmd.OutOrStdout())
			})
		},
	}

	var from uint64
	distancesCmd := &cobra.Command{
		Use:   "distances",
		Short: "Print breadth-first hop distances from a node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				return runDistances(ctx, a, from, cmd.OutOrStdout())
			})
		},
	}
	distancesCmd.Flags().Uint64Var(&from, "from", 0, "Start node")
	_ = distancesCmd.MarkFlagRequired("from")

	reachCmd := &cobra.Command{
		Use:   "reach",
		Short: "Print every node reachable along outgoing edges",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				return runReach(ctx, a, from, cmd.OutOrStdout())
			})
		},
	}
	reachCmd.Flags().Uint64Var(&from, "from", 0, "Start node")
	_ = reachCmd.MarkFlagRequired("from")

	var exportFormat string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render the trust network as DOT, Mermaid or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				if cmd.Flags().Changed("format") {
					a.cfg.Output.Export = exportFormat
				}
				if a.cfg.Output.Export == "" {
					a.cfg.Output.Export = "dot"
				}
				return runExport(ctx, a, cmd.OutOrStdout())
			})
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "dot", "Export format (dot, mermaid, json)")

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Write nodes with their metrics and all edges to Neo4j",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				return runPublish(ctx, a, cmd.OutOrStdout())
			})
		},
	}

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Upsert node feature vectors into Qdrant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				return runIndex(ctx, a, cmd.OutOrStdout())
			})
		},
	}

	var (
		node uint64
		top  int
	)
	similarCmd := &cobra.Command{
		Use:   "similar",
		Short: "Find nodes with the most similar metric profile in Qdrant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, &opts, func(ctx context.Context, a *app) error {
				return runSimilar(ctx, a, node, top, cmd.OutOrStdout())
			})
		},
	}
	similarCmd.Flags().Uint64Var(&node, "node", 0, "Query node")
	similarCmd.Flags().IntVar(&top, "top", 5, "Number of neighbours")
	_ = similarCmd.MarkFlagRequired("node")

	rootCmd.AddCommand(analyzeCmd, componentsCmd, distancesCmd, reachCmd, exportCmd, publishCmd, indexCmd, similarCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
