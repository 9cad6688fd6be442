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
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/promptadapt/internal/adapter"
	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/detector"
	"github.com/valpere/promptadapt/internal/prompt"
	"github.com/valpere/promptadapt/internal/store"
)

var (
	adaptTemplateID string
	adaptContent    string
	adaptDomain     string
	adaptLanguage   string
	adaptFormality  string
	adaptRefine     bool
	adaptGenerator  string
	adaptCheckLang  bool
	adaptNoCache    bool
	adaptOutput     string
	adaptValues     []string
)

var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Adapt a prompt template for a language and formality level",
	Long: `Adapt a prompt template for a target language and formality level.

Phase 1 applies the language's rule table (greeting, preamble, closing,
register) deterministically. With --refine and a generator, Phase 2 asks an
LLM to polish the result; if the generator is unavailable the structural
text is used unchanged.

The template comes from the catalog (--template) or directly from the
command line (--content plus --domain).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tables, err := loadTables()
		if err != nil {
			return err
		}

		tpl, err := resolveTemplate()
		if err != nil {
			return err
		}

		formality, err := pickFormality(tpl)
		if err != nil {
			return err
		}

		var opts []adapter.Option
		if adaptRefine {
			gen, err := buildGenerator(adaptGenerator)
			if err != nil {
				return err
			}
			if gen == nil {
				return fmt.Errorf("--refine requires --generator")
			}
			opts = append(opts, adapter.WithGenerator(gen))
			if adaptCheckLang {
				opts = append(opts, adapter.WithLanguageCheck(detector.New()))
			}
		}

		registry := adapter.NewRegistry(tables, opts...)
		a, err := registry.Resolve(adaptLanguage)
		if err != nil {
			return err
		}

		var db *store.Store
		if !adaptNoCache {
			db, err = store.New(viper.GetString(cfgDB))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cache unavailable: %v\n", err)
			} else {
				defer db.Close()
			}
		}

		if db != nil {
			if cached, ok, err := db.GetVariant(ctx, tpl.ID, a.Language(), formality); err == nil && ok {
				return writeVariant(*cached, true)
			}
		}

		variant, err := a.Adapt(ctx, tpl, formality)
		if err != nil {
			return err
		}

		if db != nil {
			if err := db.SaveVariant(ctx, *variant); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to cache variant: %v\n", err)
			}
			if variant.Refined {
				if err := db.SaveGeneration(ctx, variant.Key(), adaptGenerator, variant.Content, 0, 0); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to store generation: %v\n", err)
				}
			}
		}

		return writeVariant(*variant, false)
	},
}

// resolveTemplate builds the template either from the catalog or from the
// --content flag with a generated ID.
func resolveTemplate() (prompt.Template, error) {
	if adaptContent != "" {
		domain, err := culture.ParseDomain(adaptDomain)
		if err != nil {
			return prompt.Template{}, err
		}
		return prompt.Template{
			ID:      fmt.Sprintf("adhoc-%s", uuid.NewString()[:8]),
			Content: adaptContent,
			Domain:  domain,
		}, nil
	}

	if adaptTemplateID == "" {
		return prompt.Template{}, fmt.Errorf("either --template or --content is required")
	}

	catalog, err := prompt.LoadCatalog(viper.GetString(cfgCatalog))
	if err != nil {
		return prompt.Template{}, err
	}
	tpl, err := catalog.Get(adaptTemplateID)
	if err != nil {
		return prompt.Template{}, err
	}

	if len(adaptValues) > 0 {
		values := make(map[string]string, len(adaptValues))
		for _, kv := range adaptValues {
			key, v, found := strings.Cut(kv, "=")
			if !found {
				return prompt.Template{}, fmt.Errorf("invalid --set value %q (expected key=value)", kv)
			}
			values[key] = v
		}
		tpl.Content = tpl.Render(values)
	} else if len(tpl.Placeholders) > 0 {
		tpl.Content = tpl.Render(nil)
	}

	return tpl, nil
}

func pickFormality(tpl prompt.Template) (culture.Formality, error) {
	if adaptFormality != "" {
		return culture.ParseFormality(adaptFormality)
	}
	if tpl.DefaultFormality != "" {
		return tpl.DefaultFormality, nil
	}
	return culture.Neutral, nil
}

func writeVariant(v prompt.Variant, fromCache bool) error {
	if adaptOutput != "" {
		if err := os.WriteFile(adaptOutput, []byte(v.Content+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		fmt.Println(v.Content)
	}

	fmt.Fprintf(os.Stderr, "\n[%s/%s] refined=%v cached=%v\n", v.Language, v.Formality, v.Refined, fromCache)
	for _, note := range v.Notes {
		fmt.Fprintf(os.Stderr, "  - %s\n", note)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(adaptCmd)

	adaptCmd.Flags().StringVarP(&adaptTemplateID, "template", "t", "", "Template ID from the catalog")
	adaptCmd.Flags().StringVar(&adaptContent, "content", "", "Ad-hoc template content (instead of --template)")
	adaptCmd.Flags().StringVar(&adaptDomain, "domain", "business", "Domain for ad-hoc content (business, technical, creative, persuasive, instructional)")
	adaptCmd.Flags().StringVarP(&adaptLanguage, "language", "l", "en", "Target language code")
	adaptCmd.Flags().StringVarP(&adaptFormality, "formality", "f", "", "Formality level (casual, neutral, formal)")
	adaptCmd.Flags().BoolVar(&adaptRefine, "refine", false, "Enable Phase 2 LLM refinement")
	adaptCmd.Flags().StringVar(&adaptGenerator, "generator", "", "Generation backend (ollama, openrouter)")
	adaptCmd.Flags().BoolVar(&adaptCheckLang, "check-language", false, "Validate refined output language; mismatch falls back to structural text")
	adaptCmd.Flags().BoolVar(&adaptNoCache, "no-cache", false, "Skip the variant cache")
	adaptCmd.Flags().StringVarP(&adaptOutput, "output", "o", "", "Write adapted content to file")
	adaptCmd.Flags().StringArrayVar(&adaptValues, "set", nil, "Placeholder value key=value (repeatable)")
}
