/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/promptadapt/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the variant cache and experiment log",
	Long:  `List, inspect, and clear the SQLite variant cache.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached variants",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString(cfgDB))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.ListVariants(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list variants: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No cached variants.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTEMPLATE\tLANG\tFORMALITY\tREFINED\tUSED\tLAST USED\tTEXT")
		for _, e := range entries {
			snippet := e.Content
			if len(snippet) > 40 {
				snippet = snippet[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%d\t%s\t%s\n",
				e.ID, e.TemplateID, e.Language, e.Formality,
				e.Refined, e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"), snippet)
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show variant cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString(cfgDB))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total variants:    %d\n", stats.TotalVariants)
		fmt.Printf("Refined variants:  %d\n", stats.RefinedVariants)
		fmt.Printf("Total usage:       %d\n", stats.TotalUsage)
		fmt.Printf("Generations:       %d\n", stats.TotalGenerations)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a cached variant by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString(cfgDB))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.DeleteVariant(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete variant: %w", err)
		}
		fmt.Printf("Deleted variant: %s\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached variants and generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString(cfgDB))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearVariants(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %d variants from cache.\n", n)
		return nil
	},
}

var cacheExperimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "List logged experiment runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString(cfgDB))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.ListExperiments(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list experiments: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No experiments logged.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSTARTED\tCOMPLETED")
		for _, e := range entries {
			completed := "-"
			if e.CompletedAt.Valid {
				completed = e.CompletedAt.Time.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.Name, e.Status, e.StartedAt.Format("2006-01-02 15:04"), completed)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheExperimentsCmd)
}
