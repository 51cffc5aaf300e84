// Package scheduler drives scheduleTrigger nodes. It ticks on an interval,
// and once per newly-entered minute scans stored workflows for an enabled
// scheduleTrigger node whose cronExpression matches - first match wins, at
// most one triggered run per minute across the whole scheduler. It does not
// itself decide workflow semantics - that is the engine's job - it only
// decides when a workflow should run unattended.
package scheduler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/cron"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/engine"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/logging"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/storage"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

// Scheduler periodically scans a workflow store for due scheduleTrigger
// nodes and executes the owning workflow.
type Scheduler struct {
	store        storage.Store
	tickInterval time.Duration
	engineConfig types.Config
	deps         engine.Dependencies
	logger       *logging.Logger

	mu                  sync.Mutex
	lastProcessedMinute string // minute bucket the scheduler last scanned, "" before the first tick

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Scheduler over store, ticking at engineConfig.SchedulerTickInterval.
func New(store storage.Store, engineConfig types.Config, deps engine.Dependencies) *Scheduler {
	tick := engineConfig.SchedulerTickInterval
	if tick <= 0 {
		tick = 2 * time.Second
	}
	return &Scheduler{
		store:        store,
		tickInterval: tick,
		engineConfig: engineConfig,
		deps:         deps,
		logger:       logging.New(logging.DefaultConfig()),
	}
}

// Start launches the tick loop in a background goroutine. Stop cancels it.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	ticker := time.NewTicker(s.tickInterval)
	go func() {
		defer ticker.Stop()
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.tick(ctx, now)
			}
		}
	}()
}

// Stop cancels the tick loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	bucket := now.Format("200601021504")

	s.mu.Lock()
	if s.lastProcessedMinute == bucket {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	fired := false
	for _, summary := range s.store.List() {
		if fired {
			break
		}
		wf, err := s.store.Load(summary.ID)
		if err != nil {
			continue
		}

		var payload types.Payload
		if err := json.Unmarshal(wf.Data, &payload); err != nil {
			continue
		}

		for _, node := range payload.Nodes {
			if node.Type != types.NodeTypeScheduleTrigger {
				continue
			}
			if !types.GetBool(node.Data, "enabled", false) {
				continue
			}
			expr := types.GetString(node.Data, "cronExpression", "")
			if expr == "" || !cron.Matches(expr, now) {
				continue
			}

			s.fire(ctx, wf, node.ID)
			fired = true
			break
		}
	}

	// Advanced unconditionally, whether or not a trigger fired, so a minute
	// is never rescanned once it has been processed.
	s.mu.Lock()
	s.lastProcessedMinute = bucket
	s.mu.Unlock()
}

func (s *Scheduler) fire(ctx context.Context, wf *storage.Workflow, triggerNodeID string) {
	log := s.logger.WithWorkflowID(wf.ID).WithField("trigger_node", triggerNodeID)

	eng, err := engine.NewWithDependencies(wf.Data, s.engineConfig, engine.DefaultRegistry(s.deps), s.deps)
	if err != nil {
		log.WithError(err).Error("scheduled workflow failed to parse")
		return
	}

	go func() {
		if _, err := eng.ExecuteContext(ctx); err != nil {
			log.WithError(err).Error("scheduled workflow execution failed")
			return
		}
		log.Info("scheduled workflow executed")
	}()
}
