package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "xrayluci",
		Short: "xray路由器插件的后端",
		Long:  `xray路由器插件的后端, 提供数据文件(geosite/geoip)的状态查询与更新、xray运行状态查询、outbound生成以及设置页面`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(outboundCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "xrayluci config file, yaml or json")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "http address of a running xrayluci server, e.g. http://192.168.1.1:8089")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "token of the remote server")
	rootCmd.PersistentFlags().StringVar(&format, "format", formatJson, "output format, json or yaml")
}
