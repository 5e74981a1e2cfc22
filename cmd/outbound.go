package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lureiny/xrayluci/proxy/config"
	"github.com/spf13/cobra"
)

var outboundCmd = &cobra.Command{
	Use:   "outbound",
	Short: "Print a freedom outbound fragment.",
	Long:  `生成freedom协议的outbound片段, 传输层由--server参数描述, 例如 --server transport=ws --server ws_path=/ray`,
	RunE:  buildOutbound,
}

func init() {
	outboundCmd.Flags().StringVar(&tag, "tag", "", "outbound tag, a random one is generated when empty")
	outboundCmd.Flags().StringArrayVar(&serverArgs, "server", nil, "server option as key=value, repeatable")
}

func parseServerContext(args []string) (config.ServerContext, error) {
	server := config.ServerContext{}
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("invalid server option: %s", arg)
		}
		server[kv[0]] = kv[1]
	}
	return server, nil
}

func buildOutbound(cmd *cobra.Command, args []string) error {
	server, err := parseServerContext(serverArgs)
	if err != nil {
		return err
	}
	outboundTag := tag
	if outboundTag == "" {
		outboundTag = "freedom-" + uuid.New().String()[:8]
	}
	fragment, err := config.FreeOutboundFragment(config.TransportStreamBuilder{}, server, outboundTag)
	if err != nil {
		return err
	}
	if err := fragment.Outbound.Validate(); err != nil {
		return err
	}
	return printResult(fragment)
}
