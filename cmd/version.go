package cmd

import (
	"context"

	"github.com/lureiny/xrayluci/client"
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/global"
	"github.com/lureiny/xrayluci/proxy/manager"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show xray version and running status.",
	RunE:  showVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "latest", false, "also query the latest release on github")
}

type versionResult struct {
	Running bool   `json:"running"`
	Version string `json:"version,omitempty"`
	Latest  string `json:"latest,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

func localVersion(ctx context.Context) (manager.RunningStatusReply, manager.VersionReply) {
	proxyServer := global.NewProxyServer()
	return proxyServer.RunningStatus(ctx), proxyServer.VersionInfo(ctx, checkLatest)
}

func remoteVersion(ctx context.Context) (manager.RunningStatusReply, manager.VersionReply, error) {
	c := client.NewClient(remote, token, remoteTimeout)
	status, err := c.RunningStatus(ctx)
	if err != nil {
		return status, manager.VersionReply{}, err
	}
	version, err := c.Version(ctx)
	return status, version, err
}

func showVersion(cmd *cobra.Command, args []string) error {
	initGlobalInfo("cli")
	var status manager.RunningStatusReply
	var version manager.VersionReply
	if remote != "" {
		var err error
		if status, version, err = remoteVersion(cmd.Context()); err != nil {
			return err
		}
	} else {
		status, version = localVersion(cmd.Context())
	}
	return printResult(versionResult{
		Running: status.Code == common.CodeSuccess,
		Version: version.Version,
		Latest:  version.Latest,
		Msg:     version.Msg,
	})
}
