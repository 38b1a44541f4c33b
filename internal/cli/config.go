package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/wsbump/internal/config"
	clierrors "github.com/ariel-frischer/wsbump/internal/errors"
	"github.com/ariel-frischer/wsbump/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage wsbump configuration",
	Long: `Inspect and manage wsbump configuration.

Configuration is read from, in increasing priority:
  - built-in defaults
  - the user config (~/.config/wsbump/config.yml)
  - the project config (.wsbump/config.yml)
  - WSBUMP_* environment variables
  - command line flags`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return withExit(ExitFailure, clierrors.Wrap(err, clierrors.Runtime))
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the known configuration keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tTYPE\tENV\tDESCRIPTION")
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			typ := schema.Type.String()
			if len(schema.AllowedValues) > 0 {
				typ = strings.Join(schema.AllowedValues, "|")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, typ, config.EnvPrefix+strings.ToUpper(key), schema.Description)
		}
		tw.Flush()
	},
}

var (
	configInitUser  bool
	configInitForce bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file with the default values",
	Example: `  # Create .wsbump/config.yml
  wsbump config init

  # Create the user config instead
  wsbump config init --user`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPath()
		if configInitUser {
			p, err := config.UserConfigPath()
			if err != nil {
				return withExit(ExitConfig, clierrors.Wrap(err, clierrors.Configuration))
			}
			path = p
		}

		written, err := config.WriteTemplate(path, configInitForce)
		if err != nil {
			return withExit(ExitConfig, clierrors.Wrap(err, clierrors.Configuration))
		}
		if !written {
			output.PrintWarning(cmd.OutOrStdout(), fmt.Sprintf("%s already exists (use --force to overwrite)", path))
			return nil
		}
		output.PrintSuccess(cmd.OutOrStdout(), "Created "+path)
		return nil
	},
}

var (
	migrateUser    bool
	migrateProject bool
	migrateDryRun  bool
)

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert legacy JSON config files to YAML",
	Long: `Convert legacy JSON config files to YAML.

Without --user or --project both locations are migrated. The JSON file is kept
next to the new YAML file with a .bak suffix.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		both := !migrateUser && !migrateProject
		out := cmd.OutOrStdout()

		var results []*config.MigrationResult
		if migrateUser || both {
			r, err := config.MigrateUserConfig(migrateDryRun)
			if err != nil {
				return withExit(ExitConfig, clierrors.Wrap(err, clierrors.Configuration))
			}
			results = append(results, r)
		}
		if migrateProject || both {
			r, err := config.MigrateProjectConfig(migrateDryRun)
			if err != nil {
				return withExit(ExitConfig, clierrors.Wrap(err, clierrors.Configuration))
			}
			results = append(results, r)
		}

		for _, r := range results {
			switch {
			case r.DryRun && r.Success:
				output.PrintDryRun(out, r.Message)
			case r.Success:
				output.PrintSuccess(out, r.Message)
			default:
				fmt.Fprintln(out, r.Message)
			}
		}
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration

	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "Write the user config instead of the project config")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configMigrateCmd.Flags().BoolVar(&migrateUser, "user", false, "Migrate the user config")
	configMigrateCmd.Flags().BoolVar(&migrateProject, "project", false, "Migrate the project config")
	configMigrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show what would be migrated without changing files")

	configCmd.AddCommand(configShowCmd, configKeysCmd, configInitCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}
