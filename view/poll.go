package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MinPollInterval is the finest interval the cron schedule can honour.
const MinPollInterval = time.Second

// Poller runs fn once right away and then every interval until Stop or the start context ends.
// A tick is skipped while the previous one is still running.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context)

	lock    sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func NewPoller(interval time.Duration, fn func(ctx context.Context)) *Poller {
	return &Poller{interval: interval, fn: fn}
}

func (p *Poller) Start(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.running {
		return nil
	}
	// @every的精度是秒, 不足一秒的部分会被丢弃
	if p.interval < MinPollInterval || p.interval%time.Second != 0 {
		return fmt.Errorf("poll interval must be a whole number of seconds, got %s", p.interval)
	}
	ctx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.fn(ctx) }); err != nil {
		cancel()
		return err
	}
	p.cron = c
	p.cancel = cancel
	p.running = true
	c.Start()

	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		p.fn(ctx)
	}()
	// 父context结束时停止调度
	go func() {
		defer p.wg.Done()
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

// Stop cancels the poll and waits for in-flight ticks to return.
func (p *Poller) Stop() {
	p.lock.Lock()
	if !p.running {
		p.lock.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.lock.Unlock()

	cancel()
	p.wg.Wait()
}

func (p *Poller) Running() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.running
}
