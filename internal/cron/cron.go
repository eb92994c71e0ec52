package cron

import (
	"context"
	"sync"

	cronv3 "github.com/robfig/cron/v3"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/tracing"
)

// GroupIngestion serializes mailbox ingestion jobs.
const GroupIngestion = "ingestion"

var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupIngestion: new(sync.Mutex),
	},
}

// IngestionRunner is the slice of the ingestion service the scheduler needs.
type IngestionRunner interface {
	ProcessRequest(ctx context.Context, request dto.IngestionRequest) dto.IngestionReport
}

type CronManager struct {
	schedule  string
	log       logger.Logger
	cron      *cronv3.Cron
	jobIDs    map[string]cronv3.EntryID
	ingestion IngestionRunner
}

func NewCronManager(schedule string, log logger.Logger, ingestion IngestionRunner) *CronManager {
	return &CronManager{
		schedule:  schedule,
		log:       log,
		jobIDs:    make(map[string]cronv3.EntryID),
		ingestion: ingestion,
	}
}

// StartCron initializes and starts the cron scheduler.
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// Stop gracefully stops the cron manager.
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		<-ctx.Done()
	}
}

func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	if cm.schedule == "" {
		cm.log.Info("No ingestion schedule configured, skipping cron registration")
		return
	}

	id, err := c.AddFunc(cm.schedule, func() {
		defer tracing.RecoverAndLogToJaeger(cm.log)
		jobLocks.locks[GroupIngestion].Lock()
		defer jobLocks.locks[GroupIngestion].Unlock()
		cm.runIngestion()
	})
	if err != nil {
		cm.log.Fatalf("Could not add ingestion cron job: %v", err)
	}
	cm.jobIDs["ingestion"] = id
	cm.log.Infof("Registered ingestion job with schedule: %s", cm.schedule)
}

func (cm *CronManager) runIngestion() {
	cm.log.Info("Running scheduled mailbox ingestion")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runIngestion")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	report := cm.ingestion.ProcessRequest(ctx, dto.IngestionRequest{})
	if !report.Success {
		cm.log.Errorf("Scheduled ingestion failed: %s", report.Message)
		return
	}

	for category, processed := range report.Results {
		cm.log.Infof("Scheduled ingestion processed %d messages in %s", processed, category)
	}
}
