package main

import (
	"fmt"
	"os"

	"Civitas/internal/shared/logs"
	"Civitas/internal/shared/serverconfig"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "citysim"

var cfgPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "城市市民与专家分配的回合驱动",
		Long: `citysim 按剧本建城，每回合为每座城市重新分配市民与专家。

  citysim serve --config configs/conf.yml
  citysim turn --turns 10`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env 只用来注入 CIVITAS_ 前缀的环境变量，文件不存在不算错误
			_ = godotenv.Load()
			return nil
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "配置文件路径，默认 configs/conf.yml")

	root.AddCommand(newServeCommand())
	root.AddCommand(newTurnCommand())
	return root
}

// setup 读取配置并初始化全局日志；onReload 非 nil 时监听配置变更。
func setup(onReload func(serverconfig.Config)) error {
	if err := serverconfig.Load(cfgPath, onReload); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logs.Init(appName, serverconfig.Conf.Log); err != nil {
		return fmt.Errorf("init logs: %w", err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
