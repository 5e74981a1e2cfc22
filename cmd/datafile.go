package cmd

import (
	"context"
	"fmt"

	"github.com/lureiny/xrayluci/client"
	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/global"
	"github.com/lureiny/xrayluci/global/config"
	"github.com/spf13/cobra"
)

// updateCmd downloads a data file, from the configured mirror unless --url is given
var updateCmd = &cobra.Command{
	Use:       "update <geosite|geoip>",
	Short:     "Update a data file.",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: dat.Categories,
	RunE:      updateDataFile,
}

var statusCmd = &cobra.Command{
	Use:   "status [name...]",
	Short: "Show size and update time of the data files.",
	RunE:  listStatus,
}

func init() {
	updateCmd.Flags().StringVar(&section, "section", "main", "uci section holding the mirror preference")
	updateCmd.Flags().StringVar(&mirror, "mirror", "", "mirror to download from, github or jsdelivr, overrides the uci preference")
	updateCmd.Flags().StringVar(&downloadUrl, "url", "", "download url, overrides the mirror")
}

type dataFileBackend interface {
	UpdateDataFile(ctx context.Context, name, url string) (dat.UpdateReply, error)
	ListStatus(ctx context.Context, name string) (dat.ListStatusReply, error)
}

type localDataFileBackend struct {
	service *dat.Service
}

func (b *localDataFileBackend) UpdateDataFile(ctx context.Context, name, url string) (dat.UpdateReply, error) {
	return b.service.UpdateDataFile(ctx, name, url), nil
}

func (b *localDataFileBackend) ListStatus(ctx context.Context, name string) (dat.ListStatusReply, error) {
	return b.service.ListStatus(ctx, name), nil
}

func newDataFileBackend() (dataFileBackend, error) {
	if remote != "" {
		return client.NewClient(remote, token, remoteTimeout), nil
	}
	service, err := global.NewDatService()
	if err != nil {
		return nil, err
	}
	return &localDataFileBackend{service: service}, nil
}

func resolveDownloadUrl(category string) (string, error) {
	if downloadUrl != "" {
		return downloadUrl, nil
	}
	if mirror != "" {
		if url, ok := dat.MirrorURL(category, mirror); ok {
			return url, nil
		}
		return "", fmt.Errorf("unknown mirror %s for %s", mirror, category)
	}
	store, err := global.NewUciStore()
	if err != nil {
		return "", err
	}
	url, ok := dat.ResolveMirrorURL(store, section, category)
	if !ok {
		return "", fmt.Errorf("unknown mirror %s for %s", dat.MirrorPreference(store, section, category), category)
	}
	return url, nil
}

func updateDataFile(cmd *cobra.Command, args []string) error {
	initGlobalInfo("cli")
	category := args[0]
	url, err := resolveDownloadUrl(category)
	if err != nil {
		return err
	}
	backend, err := newDataFileBackend()
	if err != nil {
		return err
	}
	reply, err := backend.UpdateDataFile(cmd.Context(), category, url)
	if err != nil {
		return err
	}
	if reply.Code != config.GetInt(common.ConfigUpdateSuccessCode) {
		return fmt.Errorf("Update failed! %s", reply.Msg)
	}
	return printResult(reply)
}

func listStatus(cmd *cobra.Command, args []string) error {
	initGlobalInfo("cli")
	names := args
	if len(names) == 0 {
		names = dat.Categories
	}
	backend, err := newDataFileBackend()
	if err != nil {
		return err
	}
	result := map[string]dat.Status{}
	for _, name := range names {
		reply, err := backend.ListStatus(cmd.Context(), name)
		if err != nil {
			return err
		}
		result[name] = dat.FilterListStatus(reply)
	}
	return printResult(result)
}
