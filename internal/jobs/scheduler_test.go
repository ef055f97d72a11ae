package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob(FactViewRefreshJobName, "@hourly", func() {}))
	require.NoError(t, s.AddJob(ReportSnapshotJobName, "0 0 4 1 * *", func() {}))

	assert.ElementsMatch(t, []string{"factview_refresh", "report_snapshot"}, s.Names())
}

func TestScheduler_AddJobRejectsDuplicateName(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob(FactViewRefreshJobName, "@hourly", func() {}))
	err := s.AddJob(FactViewRefreshJobName, "@daily", func() {})
	assert.Error(t, err)
}

func TestScheduler_AddJobRejectsBadExpression(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	err := s.AddJob(JobName("bogus"), "not a cron expr", func() {})
	assert.Error(t, err)
	assert.Empty(t, s.Names())
}
