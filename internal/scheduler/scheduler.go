package scheduler

import (
	"studymate/internal/providers"
	"studymate/internal/scheduler/interfaces"
	"sync"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

type Scheduler struct {
	logger    providers.Logger
	persister interfaces.PersisterInterface
	tasks     []interfaces.TaskInterface
	cron      *gron.Cron
	running   *atomic.Bool
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	for _, task := range s.tasks {
		if !task.Enabled() {
			s.logger.Infof(providers.TypeApp, "Task %s disabled", task.Name())
			continue
		}
		s.cron.AddFunc(gron.Every(task.Interval()), func() { s.run(task) })
		s.logger.Infof(providers.TypeApp, "Task %s scheduled every %s", task.Name(), task.Interval())
		s.run(task)
	}

	s.cron.Start()
	s.running.Store(true)
}

func (s *Scheduler) run(task interfaces.TaskInterface) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Debugf(providers.TypeApp, "Running task %s", task.Name())
	task.Run()
}

func (s *Scheduler) Stop() {
	if s.running.CompareAndSwap(true, false) {
		s.cron.Stop()
	}
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) Restore() error {
	return s.persister.Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting pending state...")
	err := s.persister.Persist()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(logger providers.Logger, persister interfaces.PersisterInterface, reminder interfaces.TaskInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		logger:    logger,
		persister: persister,
		tasks:     []interfaces.TaskInterface{reminder},
		running:   atomic.NewBool(false),
	}
}
