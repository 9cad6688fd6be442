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

	"github.com/spf13/viper"

	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/generator"
)

// Configuration keys. Each is settable via a config file
// (promptadapt.yaml) or a PROMPTADAPT_* environment variable, e.g.
// PROMPTADAPT_OPENROUTER_KEY.
const (
	cfgTables        = "tables"
	cfgCatalog       = "catalog"
	cfgDB            = "db"
	cfgOllamaURL     = "ollama_url"
	cfgOllamaModel   = "ollama_model"
	cfgOpenRouterKey = "openrouter_key"
	cfgOpenRouterMdl = "openrouter_model"
)

func initConfig() {
	viper.SetConfigName("promptadapt")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.promptadapt")

	viper.SetEnvPrefix("PROMPTADAPT")
	viper.AutomaticEnv()

	viper.SetDefault(cfgCatalog, "./config/prompts.yaml")
	viper.SetDefault(cfgDB, "./data/promptadapt.db")
	viper.SetDefault(cfgOllamaURL, "http://localhost:11434")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file: %v\n", err)
		}
	}
}

// loadTables loads the cultural rule tables from the configured path, or
// the embedded defaults when none is configured.
func loadTables() (*culture.Set, error) {
	return culture.Load(viper.GetString(cfgTables))
}

// buildGenerator constructs the generation backend from its name. An empty
// name means no generator (structural-only adaptation).
func buildGenerator(name string) (generator.Generator, error) {
	switch name {
	case "":
		return nil, nil
	case "ollama":
		return generator.NewOllamaGenerator(
			viper.GetString(cfgOllamaModel),
			viper.GetString(cfgOllamaURL),
		), nil
	case "openrouter":
		key := viper.GetString(cfgOpenRouterKey)
		if key == "" {
			return nil, fmt.Errorf("OpenRouter requires an API key (set PROMPTADAPT_OPENROUTER_KEY)")
		}
		return generator.NewOpenRouterGenerator(
			key,
			viper.GetString(cfgOpenRouterMdl),
			"",
		), nil
	default:
		return nil, fmt.Errorf("unknown generator %q (expected ollama or openrouter)", name)
	}
}
