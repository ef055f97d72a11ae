package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingRefresher struct {
	refreshed []string
	failOn    map[string]error
}

func (r *recordingRefresher) Refresh(ctx context.Context, view string) error {
	if err, ok := r.failOn[view]; ok {
		return err
	}
	r.refreshed = append(r.refreshed, view)
	return nil
}

func TestFactViewRefreshJob_RefreshesAllViewsInOrder(t *testing.T) {
	refresher := &recordingRefresher{}
	views := []string{"kpi_volume_facts", "kpi_reach_facts", "kpi_mix_facts"}

	job := NewFactViewRefreshJob(refresher, views, zap.NewNop(), time.Minute)
	job.Run()

	assert.Equal(t, views, refresher.refreshed)
}

func TestFactViewRefreshJob_FailedViewDoesNotStopSweep(t *testing.T) {
	refresher := &recordingRefresher{
		failOn: map[string]error{"kpi_reach_facts": errors.New("lock timeout")},
	}
	views := []string{"kpi_volume_facts", "kpi_reach_facts", "kpi_mix_facts"}

	job := NewFactViewRefreshJob(refresher, views, zap.NewNop(), time.Minute)
	job.Run()

	assert.Equal(t, []string{"kpi_volume_facts", "kpi_mix_facts"}, refresher.refreshed)
}
