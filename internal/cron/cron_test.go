package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type countingRunner struct {
	calls int32
}

func (r *countingRunner) ProcessRequest(ctx context.Context, request dto.IngestionRequest) dto.IngestionReport {
	atomic.AddInt32(&r.calls, 1)
	return dto.IngestionReport{
		Success: true,
		Message: "Emails processed successfully",
		Results: map[string]int{"primary": 0},
	}
}

func TestNewCronManager(t *testing.T) {
	runner := &countingRunner{}

	cm := NewCronManager("0 0 * * * *", getLogger(), runner)

	assert.NotNil(t, cm)
	assert.Equal(t, "0 0 * * * *", cm.schedule)
	assert.NotNil(t, cm.jobIDs)
}

func TestCronManager_StartCron(t *testing.T) {
	runner := &countingRunner{}
	cm := NewCronManager("0 0 * * * *", getLogger(), runner)

	cm.StartCron()
	defer cm.Stop()

	assert.NotNil(t, cm.cron)
	assert.Contains(t, cm.jobIDs, "ingestion")
	assert.Len(t, cm.cron.Entries(), 1)
}

func TestCronManager_NoScheduleRegistersNothing(t *testing.T) {
	runner := &countingRunner{}
	cm := NewCronManager("", getLogger(), runner)

	cm.StartCron()
	defer cm.Stop()

	assert.Empty(t, cm.jobIDs)
	assert.Empty(t, cm.cron.Entries())
}

func TestCronManager_RunsIngestionOnSchedule(t *testing.T) {
	runner := &countingRunner{}
	// every second
	cm := NewCronManager("* * * * * *", getLogger(), runner)

	cm.StartCron()
	defer cm.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runner.calls) >= 1
	}, 3*time.Second, 50*time.Millisecond)
}
