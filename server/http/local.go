package http

import (
	"context"

	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/proxy/manager"
)

// localServices serves the view services from the backends of this process instead of over rpc.
type localServices struct {
	dat         *dat.Service
	proxy       *manager.ProxyServer
	checkLatest bool
	metrics     *serverMetrics
	node        string
}

func (l *localServices) ListStatus(ctx context.Context, name string) dat.ListStatusReply {
	return l.dat.ListStatus(ctx, name)
}

func (l *localServices) Status(ctx context.Context, name string) (dat.Status, error) {
	return dat.FilterListStatus(l.ListStatus(ctx, name)), nil
}

func (l *localServices) UpdateDataFile(ctx context.Context, name, url string) (dat.UpdateReply, error) {
	reply := l.dat.UpdateDataFile(ctx, name, url)
	l.metrics.observeUpdate(l.node, name, reply.Code)
	return reply, nil
}

func (l *localServices) RunningStatus(ctx context.Context) (manager.RunningStatusReply, error) {
	return l.proxy.RunningStatus(ctx), nil
}

func (l *localServices) Version(ctx context.Context) (manager.VersionReply, error) {
	return l.proxy.VersionInfo(ctx, l.checkLatest), nil
}
