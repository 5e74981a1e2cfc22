package view

import (
	"context"

	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/proxy/manager"
)

// DataFileUpdater is the updatedatafile remote call. A returned error is a transport
// failure, logical failures come back as a reply with a non-success code.
type DataFileUpdater interface {
	UpdateDataFile(ctx context.Context, name, url string) (dat.UpdateReply, error)
}

// RunningStatusSource is the remote status of the xray service.
type RunningStatusSource interface {
	RunningStatus(ctx context.Context) (manager.RunningStatusReply, error)
	Version(ctx context.Context) (manager.VersionReply, error)
}
