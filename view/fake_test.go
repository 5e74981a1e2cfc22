package view

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/dat"
	"github.com/lureiny/xrayluci/proxy/manager"
)

type fakeStatusSource struct {
	status dat.Status
	err    error
	calls  int
}

func (f *fakeStatusSource) Status(ctx context.Context, name string) (dat.Status, error) {
	f.calls++
	return f.status, f.err
}

type updateCall struct {
	name string
	url  string
}

type fakeUpdater struct {
	reply dat.UpdateReply
	err   error
	calls []updateCall
}

func (f *fakeUpdater) UpdateDataFile(ctx context.Context, name, url string) (dat.UpdateReply, error) {
	f.calls = append(f.calls, updateCall{name: name, url: url})
	return f.reply, f.err
}

type fakeRunningSource struct {
	lock       sync.Mutex
	running    bool
	statusErr  error
	version    manager.VersionReply
	versionErr error
	// Version blocks until gate is closed
	gate  chan struct{}
	polls int
}

func (f *fakeRunningSource) RunningStatus(ctx context.Context) (manager.RunningStatusReply, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.polls++
	if f.statusErr != nil {
		return manager.RunningStatusReply{}, f.statusErr
	}
	if f.running {
		return manager.RunningStatusReply{Code: common.CodeSuccess}, nil
	}
	return manager.RunningStatusReply{Code: common.CodeFailed}, nil
}

func (f *fakeRunningSource) Version(ctx context.Context) (manager.VersionReply, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return manager.VersionReply{}, ctx.Err()
		}
	}
	return f.version, f.versionErr
}

func (f *fakeRunningSource) set(running bool, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.running = running
	f.statusErr = err
}

func (f *fakeRunningSource) pollCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.polls
}

type memFiles struct {
	data map[string][]byte
}

func (m *memFiles) Stat(path string) (*dat.FileInfo, error) {
	if d, ok := m.data[path]; ok {
		return &dat.FileInfo{Size: int64(len(d))}, nil
	}
	return nil, os.ErrNotExist
}

func (m *memFiles) Read(path string) ([]byte, error) {
	if d, ok := m.data[path]; ok {
		return d, nil
	}
	return nil, os.ErrNotExist
}

func (m *memFiles) Write(path string, data []byte) error {
	if path == "" {
		return errors.New("empty path")
	}
	m.data[path] = data
	return nil
}
