package daemons

import (
	"time"

	"github.com/Nephast0/web-de-administracion-de-suministros/config"
	"github.com/Nephast0/web-de-administracion-de-suministros/jobs"
	"github.com/Nephast0/web-de-administracion-de-suministros/jobs/cron"
)

type Worker interface {
	Start()
	Stop()
}

// CronJob runs every registered job in its own goroutine until stopped.
type CronJob struct {
	Running bool
	Jobs    []jobs.Job
}

func NewCronJob() *CronJob {
	return &CronJob{
		Running: true,
		Jobs: []jobs.Job{
			&cron.TrialBalanceJob{},
		},
	}
}

func (c *CronJob) Stop() {
	c.Running = false
}

func (c *CronJob) Start() {
	config.Logger.Infof("cron worker starting with %d job(s)", len(c.Jobs))

	for _, job := range c.Jobs {
		go c.Process(job)
	}

	for c.Running {
		time.Sleep(1 * time.Second)
	}
}

func (c *CronJob) Process(job jobs.Job) {
	for c.Running {
		job.Process()
	}
}
