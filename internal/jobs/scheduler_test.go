package jobs_test

import (
	"testing"

	"github.com/straye-as/pipeline-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddAndRemoveJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b", "0 */15 * * * *", func() {}))
	require.NoError(t, s.AddJob("a", "@every 1h", func() {}))
	assert.Equal(t, []string{"a", "b"}, s.JobNames())

	err := s.AddJob("a", "@hourly", func() {})
	assert.EqualError(t, err, "job a already exists")

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.JobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestScheduler_RejectsInvalidExpression(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	err := s.AddJob("bad", "*/15 * * * *", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add job bad")
	assert.Empty(t, s.JobNames())
}

func TestScheduler_StartStop(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, s.AddJob("noop", "@every 1h", func() {}))

	s.Start()
	<-s.Stop().Done()
}
