// Package command wires the CLI. Configuration flows cobra flags →
// viper (WWSNB_* environment overrides) → engine options.
package command

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const AppName = "wwsnb"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "wwsnb - chat augmentation and reaction sync",
		Long:          "wwsnb augments a chat session with mention suggestions, message annotations and cross-process emoji reactions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("session", "", "session token or page URL carrying ?sessionToken= (default: "+AppName+" default session)")
	cmd.PersistentFlags().String("store", "", "path to the sqlite state store (default: ~/.wwsnb/state.db)")
	cmd.PersistentFlags().String("spool", "", "broadcast spool directory (default: ~/.wwsnb/spool)")
	cmd.PersistentFlags().String("redis", "", "redis address for broadcast instead of the spool directory")
	cmd.PersistentFlags().Duration("freshness", 0, "directory cache freshness window")
	cmd.PersistentFlags().Duration("debounce", 0, "change-notification debounce delay")
	cmd.PersistentFlags().Duration("sweep", 0, "attach sweep interval")
	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix(strings.ToUpper(AppName))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewChatCmd(),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd(Version).Execute()
}
