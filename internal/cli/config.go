package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ndk/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the ndk configuration file",
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	return cmd
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			if formatter.JSON() {
				return formatter.Success(opts.Config)
			}
			data, err := yaml.Marshal(opts.Config)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeConfig, "encode config", err)
			}
			_, err = formatter.Writer.Write(data)
			return err
		},
	}
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Long: `Write a config file holding the effective configuration.

Defaults to ndk.yaml in the user config directory. Refuses to overwrite an
existing file unless --force is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)

			target := path
			if target == "" {
				p, err := config.UserConfigPath()
				if err != nil {
					return formatter.Fail(ExitCommandError, ErrCodeConfig, "locate config directory", err)
				}
				target = p
			}
			if fileExists(target) && !force {
				return formatter.Fail(ExitCommandError, ErrCodeConfig,
					fmt.Sprintf("%s already exists (use --force to overwrite)", target), nil)
			}
			if err := config.Write(target, opts.Config); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeConfig, "write config", err)
			}

			if formatter.JSON() {
				return formatter.Success(map[string]string{"path": target})
			}
			fmt.Fprintf(formatter.Writer, "✓ wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to write (default: user config dir)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
