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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/promptadapt/internal/adapter"
	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/metrics"
	"github.com/valpere/promptadapt/internal/prompt"
	"github.com/valpere/promptadapt/internal/report"
	"github.com/valpere/promptadapt/internal/store"
)

var (
	evalTemplateID  string
	evalLanguages   []string
	evalFormalities []string
	evalRefine      bool
	evalGenerator   string
	evalOutput      string
	evalFormat      string
	evalName        string
	evalNoLog       bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Adapt and score a template across languages and formality levels",
	Long: `Adapt a catalog template for every requested language × formality
combination, measure each variant quantitatively, assess its cultural
appropriateness, and render a combined report.

Each run is logged to the experiment log unless --no-log is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tables, err := loadTables()
		if err != nil {
			return err
		}

		catalog, err := prompt.LoadCatalog(viper.GetString(cfgCatalog))
		if err != nil {
			return err
		}
		tpl, err := catalog.Get(evalTemplateID)
		if err != nil {
			return err
		}
		if len(tpl.Placeholders) > 0 {
			tpl.Content = tpl.Render(nil)
		}

		formalities, err := parseFormalities(evalFormalities)
		if err != nil {
			return err
		}
		languages := evalLanguages
		if len(languages) == 0 {
			languages = tables.Codes()
		}

		var opts []adapter.Option
		if evalRefine {
			gen, err := buildGenerator(evalGenerator)
			if err != nil {
				return err
			}
			if gen == nil {
				return fmt.Errorf("--refine requires --generator")
			}
			opts = append(opts, adapter.WithGenerator(gen))
		}
		registry := adapter.NewRegistry(tables, opts...)
		engine := metrics.NewEngine(tables)

		var db *store.Store
		experimentID := fmt.Sprintf("exp_%s", uuid.NewString()[:8])
		if !evalNoLog {
			db, err = store.New(viper.GetString(cfgDB))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: experiment log unavailable: %v\n", err)
			} else {
				defer db.Close()
				name := evalName
				if name == "" {
					name = fmt.Sprintf("evaluate %s", tpl.ID)
				}
				cfg := map[string]any{
					"template":    tpl.ID,
					"languages":   languages,
					"formalities": formalities,
					"refine":      evalRefine,
					"generator":   evalGenerator,
				}
				if err := db.CreateExperiment(ctx, experimentID, name, cfg); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to log experiment: %v\n", err)
					db = nil
				}
			}
		}

		var results []report.Result
		for _, lang := range languages {
			a, err := registry.Resolve(lang)
			if err != nil {
				return err
			}
			for _, formality := range formalities {
				variant, err := a.Adapt(ctx, tpl, formality)
				if err != nil {
					return fmt.Errorf("adaptation failed for %s/%s: %w", lang, formality, err)
				}

				quant, err := engine.Measure(variant.Content, lang, formality)
				if err != nil {
					return err
				}
				qual, err := engine.Assess(variant.Content, lang, formality, tpl.Domain)
				if err != nil {
					return err
				}

				results = append(results, report.Result{Variant: *variant, Quant: quant, Qual: qual})

				if db != nil {
					reportJSON, _ := json.Marshal(map[string]any{"quant": quant, "qual": qual})
					if err := db.AddExperimentResult(ctx, experimentID, variant.Key(), qual.Score, qual.Rating, string(reportJSON)); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to log result: %v\n", err)
					}
				}
			}
		}

		if db != nil {
			if err := db.CompleteExperiment(ctx, experimentID, "completed"); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to complete experiment: %v\n", err)
			}
		}

		return writeReport(tpl, results, experimentID)
	},
}

func parseFormalities(raw []string) ([]culture.Formality, error) {
	if len(raw) == 0 {
		return culture.Formalities, nil
	}
	out := make([]culture.Formality, 0, len(raw))
	for _, s := range raw {
		f, err := culture.ParseFormality(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func writeReport(tpl prompt.Template, results []report.Result, experimentID string) error {
	data := report.Data{
		Title:       fmt.Sprintf("Adaptation Report: %s", tpl.ID),
		Experiment:  experimentID,
		Template:    tpl,
		Results:     results,
		GeneratedAt: time.Now(),
	}

	out := os.Stdout
	if evalOutput != "" {
		f, err := os.Create(evalOutput)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch evalFormat {
	case "html":
		return report.HTML(out, data)
	case "md", "markdown":
		return report.Markdown(out, data)
	default:
		return fmt.Errorf("unknown report format %q (expected md or html)", evalFormat)
	}
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalTemplateID, "template", "t", "", "Template ID from the catalog")
	evaluateCmd.Flags().StringSliceVarP(&evalLanguages, "languages", "l", nil, "Language codes (default: all registered)")
	evaluateCmd.Flags().StringSliceVarP(&evalFormalities, "formalities", "f", nil, "Formality levels (default: all)")
	evaluateCmd.Flags().BoolVar(&evalRefine, "refine", false, "Enable Phase 2 LLM refinement")
	evaluateCmd.Flags().StringVar(&evalGenerator, "generator", "", "Generation backend (ollama, openrouter)")
	evaluateCmd.Flags().StringVarP(&evalOutput, "output", "o", "", "Report file (default: stdout)")
	evaluateCmd.Flags().StringVar(&evalFormat, "format", "md", "Report format (md, html)")
	evaluateCmd.Flags().StringVar(&evalName, "name", "", "Experiment name")
	evaluateCmd.Flags().BoolVar(&evalNoLog, "no-log", false, "Skip experiment logging")

	_ = evaluateCmd.MarkFlagRequired("template")
}
