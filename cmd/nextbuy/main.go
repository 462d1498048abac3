package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/nextbuy/config"
	_ "github.com/rushteam/nextbuy/config/builders"
	"github.com/rushteam/nextbuy/pkg/logging"
)

var (
	cfgFile string
	version = "dev"
	v       = config.NewViper()
	rootCmd = &cobra.Command{
		Use:   "nextbuy",
		Short: "Next-purchase recommendations from co-purchase history",
		Long: `nextbuy reads order history, counts which products are bought together
and recommends, for every customer, the product most likely to come next.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := logging.Init(logging.Config{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: os.Stderr,
	}); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// bindFlags 在命令执行前把 flag 绑定到 viper key。
// 多个子命令共用同名 key，必须在 PreRunE 中绑定当前命令的 flag。
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "nextbuy", version)
		},
	}
}
