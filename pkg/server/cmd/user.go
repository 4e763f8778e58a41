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


package cmd

import (
	"fmt"
	"io"

	"github.com/lyricsmith/lyricsmith/pkg/prompt"
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const databaseURLUsage = "Postgres URL or path to a SQLite database file (env: DATABASE_URL)"

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserPromoteCmd())

	return cmd
}

type userCreateFlags struct {
	databaseURL string
	email       string
	password    string
	username    string
	admin       bool
}

func newUserCreateCmd() *cobra.Command {
	var f userCreateFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a verified user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.databaseURL, "databaseUrl", "", databaseURLUsage)
	flags.StringVar(&f.email, "email", "", "User email address (required)")
	flags.StringVar(&f.password, "password", "", "User password (required)")
	flags.StringVar(&f.username, "username", "", "Display name")
	flags.BoolVar(&f.admin, "admin", false, "Grant the admin role")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runUserCreate(w io.Writer, f userCreateFlags) error {
	a, cleanup, err := setupAppWithDB(f.databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	role := database.RoleUser
	if f.admin {
		role = database.RoleAdmin
	}

	user, err := a.CreateUser(app.CreateUserParams{
		Username: f.username,
		Email:    f.email,
		Password: f.password,
		Role:     role,
	})
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	printSuccess(w, "User created")
	fmt.Fprintf(w, "  Email: %s\n  Role: %s\n", user.Email, user.Role)

	return nil
}

type userPromoteFlags struct {
	databaseURL string
	email       string
	yes         bool
}

func newUserPromoteCmd() *cobra.Command {
	var f userPromoteFlags

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserPromote(cmd.InOrStdin(), cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.databaseURL, "databaseUrl", "", databaseURLUsage)
	flags.StringVar(&f.email, "email", "", "User email address (required)")
	flags.BoolVarP(&f.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runUserPromote(r io.Reader, w io.Writer, f userPromoteFlags) error {
	a, cleanup, err := setupAppWithDB(f.databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.GetUserByEmail(f.email)
	if err != nil {
		return errors.Wrap(err, "finding user")
	}

	if user.Role == database.RoleAdmin {
		printInfo(w, "%s is already an admin", user.Email)
		return nil
	}

	if !f.yes {
		ok, err := prompt.Confirm(r, w, fmt.Sprintf("Grant the admin role to %s?", user.Email), false)
		if err != nil {
			return errors.Wrap(err, "reading confirmation")
		}
		if !ok {
			printInfo(w, "Aborted by user")
			return nil
		}
	}

	if _, err := a.PromoteUser(user.Email); err != nil {
		return errors.Wrap(err, "promoting user")
	}

	printSuccess(w, "%s is now an admin", user.Email)

	return nil
}
