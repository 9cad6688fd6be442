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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "promptadapt",
	Short: "Cultural prompt adaptation and evaluation",
	Long: `A CLI application that rewrites a base instruction text into a culturally
and stylistically adapted variant for a target language and formality level,
optionally refines it with an LLM, and scores the result against quantitative
and rubric-based criteria.

Supported languages ship as declarative rule tables (en, de, es by default);
adding a language is a configuration change, not a code change.

Use "promptadapt adapt --help" for adaptation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}
