/* Copyright 2025 Lyricsmith Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


// Package cmd implements the lyricsmith-server command line interface
package cmd

import (
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const defaultEnvFile = ".env"

// NewRoot returns the root command with every subcommand registered
func NewRoot(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "lyricsmith-server",
		Short:         "Lyricsmith server - song lyrics generation",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("envFile"))
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	root.PersistentFlags().StringVar(&envFile, "envFile", defaultEnvFile, "file of KEY=value pairs loaded into the environment")

	root.AddCommand(newStartCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadEnvFile loads the variables of the file without overriding the ones
// already set. A missing file is an error only if it was asked for.
func loadEnvFile(path string, explicit bool) error {
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return errors.Wrapf(err, "loading env file %s", path)
	}

	return nil
}

// Execute runs the command line interface
func Execute() error {
	return NewRoot(os.Stdin, os.Stdout).Execute()
}
