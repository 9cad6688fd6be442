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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/promptadapt/internal/culture"
)

var languagesVerbose bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the registered language rule tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := loadTables()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tREFINE\tFORMAL GREETING\tFORMAL CLOSING")
		for _, t := range tables.Tables() {
			entry, err := t.Entry(culture.Formal, culture.Business)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n",
				t.Code, t.Name, t.Refine.Enabled, entry.Greeting, entry.Closing)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if !languagesVerbose {
			return nil
		}

		for _, t := range tables.Tables() {
			fmt.Printf("\n%s (%s)\n", t.Name, t.Code)
			for _, f := range culture.Formalities {
				entry, err := t.Entry(f, culture.Business)
				if err != nil {
					return err
				}
				fmt.Printf("  %-8s pronoun=%-6s directness=%-10s greeting=%q closing=%q\n",
					f, entry.Pronoun, entry.Directness, entry.Greeting, entry.Closing)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().BoolVarP(&languagesVerbose, "verbose", "v", false, "Show per-formality entries")
}
