package view

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
	widgetTemplate "github.com/lureiny/xrayluci/common/template"
)

const (
	StateUnknown = ""
	StateRunning = "running"
	StateStopped = "stopped"
)

// RunningStatusSnapshot is what the widget currently displays.
type RunningStatusSnapshot struct {
	State         string `json:"state"`
	Version       string `json:"version,omitempty"`
	Latest        string `json:"latest,omitempty"`
	VersionFailed bool   `json:"version_failed"`
}

// RunningStatus polls the service state and fetches the xray version once.
// The poll belongs to the view, Stop must be called when the view goes away.
type RunningStatus struct {
	AbstractValue
	Source   RunningStatusSource
	Interval time.Duration
	// OnChange is called after every state or version update
	OnChange func(RunningStatusSnapshot)

	lock     sync.RWMutex
	snapshot RunningStatusSnapshot
	poller   *Poller
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewRunningStatus(option string, source RunningStatusSource) *RunningStatus {
	return &RunningStatus{
		AbstractValue: AbstractValue{OptionName: option},
		Source:        source,
		Interval:      common.DefaultPollInterval,
	}
}

// Render shows the current snapshot, the first call starts the version fetch and the poll.
func (r *RunningStatus) Render(ctx context.Context, optionIndex int, sectionID string) (template.HTML, error) {
	if err := r.start(); err != nil {
		return "", err
	}
	return widgetTemplate.RenderWidget(widgetTemplate.RunningStatusWidget, r.Snapshot())
}

func (r *RunningStatus) start() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.poller != nil {
		return nil
	}
	// 生命周期跟随view而不是单次请求
	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(r.Interval, r.pollStatus)
	if err := poller.Start(ctx); err != nil {
		cancel()
		return err
	}
	r.poller = poller
	r.cancel = cancel
	r.snapshot = RunningStatusSnapshot{}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.fetchVersion(ctx)
	}()
	return nil
}

// Stop ends the poll and the pending version fetch.
func (r *RunningStatus) Stop() {
	r.lock.Lock()
	poller, cancel := r.poller, r.cancel
	r.poller, r.cancel = nil, nil
	r.lock.Unlock()
	if poller == nil {
		return
	}
	cancel()
	poller.Stop()
	r.wg.Wait()
}

func (r *RunningStatus) Snapshot() RunningStatusSnapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.snapshot
}

func (r *RunningStatus) update(fn func(s *RunningStatusSnapshot)) {
	r.lock.Lock()
	fn(&r.snapshot)
	snapshot := r.snapshot
	onChange := r.OnChange
	r.lock.Unlock()
	if onChange != nil {
		onChange(snapshot)
	}
}

func (r *RunningStatus) fetchVersion(ctx context.Context) {
	reply, err := r.Source.Version(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil || reply.Code != common.CodeSuccess || reply.Version == "" {
		logger.Debug("Msg=get xray version fail|Err=%v|Code=%d", err, reply.Code)
		r.update(func(s *RunningStatusSnapshot) { s.VersionFailed = true })
		return
	}
	r.update(func(s *RunningStatusSnapshot) {
		s.Version = reply.Version
		s.Latest = reply.Latest
		s.VersionFailed = false
	})
}

// 获取失败时保持当前显示
func (r *RunningStatus) pollStatus(ctx context.Context) {
	reply, err := r.Source.RunningStatus(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Debug("Msg=get running status fail|Err=%v", err)
		return
	}
	state := StateStopped
	if reply.Code == common.CodeSuccess {
		state = StateRunning
	}
	r.update(func(s *RunningStatusSnapshot) { s.State = state })
}

func (r *RunningStatus) CfgValue(ctx context.Context, sectionID string) (interface{}, error) {
	return nil, nil
}

func (r *RunningStatus) Write(sectionID, value string) error { return nil }

func (r *RunningStatus) Remove(sectionID string) error { return nil }

func (r *RunningStatus) Validate(sectionID, value string) error { return nil }
