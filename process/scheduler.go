// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package process

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/log"
)

// Delivery is the work a scheduled job performs when it fires
type Delivery func(ctx context.Context) error

// Scheduler delivers work to processes in the future.
// It is owned by the System and runs between System.Start and System.Stop.
type Scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
}

func newScheduler(logger log.Logger, stopTimeout time.Duration) (*Scheduler, error) {
	quartzScheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return nil, fmt.Errorf("failed to create the scheduler: %w", err)
	}

	return &Scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
	}, nil
}

func (x *Scheduler) start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.started.Load() {
		return
	}

	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("scheduler started")
}

func (x *Scheduler) stop(ctx context.Context) error {
	if !x.started.Load() {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	err := x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Debug("scheduler stopped")
	return err
}

// ScheduleOnce runs deliver once after delay. It returns the job key.
func (x *Scheduler) ScheduleOnce(delay time.Duration, deliver Delivery) (string, error) {
	return x.schedule(deliver, func() (quartz.Trigger, error) {
		return quartz.NewRunOnceTrigger(delay), nil
	})
}

// Schedule runs deliver every interval until the job is cancelled. It returns the job key.
func (x *Scheduler) Schedule(interval time.Duration, deliver Delivery) (string, error) {
	return x.schedule(deliver, func() (quartz.Trigger, error) {
		return quartz.NewSimpleTrigger(interval), nil
	})
}

// ScheduleWithCron runs deliver following the cron expression, in the local time zone.
// It returns the job key.
func (x *Scheduler) ScheduleWithCron(cronExpression string, deliver Delivery) (string, error) {
	return x.schedule(deliver, func() (quartz.Trigger, error) {
		return quartz.NewCronTriggerWithLoc(cronExpression, time.Now().Location())
	})
}

// Cancel removes the job registered under key
func (x *Scheduler) Cancel(key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	return x.quartzScheduler.DeleteJob(quartz.NewJobKey(key))
}

func (x *Scheduler) schedule(deliver Delivery, trigger func() (quartz.Trigger, error)) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}

	t, err := trigger()
	if err != nil {
		x.logger.Error(fmt.Errorf("failed to schedule delivery: %w", err))
		return "", err
	}

	functionJob := job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			err := deliver(ctx)
			return err == nil, err
		},
	)

	key := uuid.NewString()
	detail := quartz.NewJobDetail(functionJob, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, t); err != nil {
		return "", err
	}
	return key, nil
}

// NotifyLater applies event to the process after delay
func NotifyLater[E any, T Applicator[E]](system *System, ref *Ref[T], event E, delay time.Duration) (string, error) {
	return system.scheduler.ScheduleOnce(delay, func(context.Context) error {
		return Notify[E](ref, event)
	})
}

// EntrustLater sends cmd to the process after delay without waiting for the outcome
func EntrustLater[C, E any, T Entity[C, E]](system *System, ref *Ref[T], cmd C, delay time.Duration) (string, error) {
	return system.scheduler.ScheduleOnce(delay, func(context.Context) error {
		return Entrust[C, E](ref, cmd)
	})
}
