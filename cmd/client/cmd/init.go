// cmd/client/cmd/init.go
package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"funkokeeper/cmd/client/cmd/funko"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a client config file and check the server",
	Long: `init writes ~/.funkokeeper/config.yaml with the current settings
(unless it already exists) and checks that the server accepts connections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(home, ".funkokeeper")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}

		v := viper.New()
		v.Set("server_address", cfg.ServerAddress)
		v.Set("app_env", cfg.Env)
		v.Set("dial_timeout", cfg.DialTimeout.String())

		path := filepath.Join(dir, "config.yaml")
		if err := v.SafeWriteConfigAs(path); err != nil {
			var exists viper.ConfigFileAlreadyExistsError
			if !errors.As(err, &exists) {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Config already exists: %s", path))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Config written: %s", path))
		}

		conn, err := net.DialTimeout("tcp", cfg.ServerAddress, cfg.DialTimeout)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Server %s is not reachable: %v", cfg.ServerAddress, err))
			return nil
		}
		_ = conn.Close()
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Server %s is reachable", cfg.ServerAddress))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	rootCmd.AddCommand(funko.AddCmd)
	rootCmd.AddCommand(funko.ListCmd)
	rootCmd.AddCommand(funko.ReadCmd)
	rootCmd.AddCommand(funko.RemoveCmd)
	rootCmd.AddCommand(funko.UpdateCmd)
}
