package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDependency struct {
	name      string
	dependsOn []string
	failures  int
	stopErr   error
	log       *[]string
}

func (f *fakeDependency) GetName() string     { return f.name }
func (f *fakeDependency) DependsOn() []string { return f.dependsOn }

func (f *fakeDependency) Start(_ context.Context) error {
	if f.failures > 0 {
		f.failures--
		return errors.New(f.name + " unavailable")
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeDependency) Stop(_ context.Context) error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func newTestStartup(maxAttempts int) *Startup {
	s := NewStartup(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), maxAttempts)
	s.backoffUnit = time.Millisecond
	return s
}

func TestStartup_DependencyOrder(t *testing.T) {
	var log []string
	s := newTestStartup(1)
	s.AddDependency(&fakeDependency{name: "http", dependsOn: []string{"migrations", "database"}, log: &log})
	s.AddDependency(&fakeDependency{name: "migrations", dependsOn: []string{"database"}, log: &log})
	s.AddDependency(&fakeDependency{name: "database", log: &log})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start database", "start migrations", "start http"}, log)
	assert.Equal(t, StartupStatusStarted, s.Status("http"))

	log = nil
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"stop http", "stop migrations", "stop database"}, log)
	assert.Equal(t, StartupStatusStopped, s.Status("database"))
}

func TestStartup_RetriesUntilAvailable(t *testing.T) {
	var log []string
	s := newTestStartup(3)
	s.AddDependency(&fakeDependency{name: "database", failures: 2, log: &log})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"start database"}, log)
}

func TestStartup_GivesUp(t *testing.T) {
	var log []string
	s := newTestStartup(2)
	s.AddDependency(&fakeDependency{name: "database", failures: 5, log: &log})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup failed after 2 attempts")
	assert.Equal(t, StartupStatusFailed, s.Status("database"))
}

func TestStartup_Errors(t *testing.T) {
	t.Run("unknown dependency", func(t *testing.T) {
		var log []string
		s := newTestStartup(1)
		s.AddDependency(&fakeDependency{name: "http", dependsOn: []string{"database"}, log: &log})

		assert.ErrorContains(t, s.Start(context.Background()), "unknown startup dependency 'database'")
	})

	t.Run("cycle", func(t *testing.T) {
		var log []string
		s := newTestStartup(1)
		s.AddDependency(&fakeDependency{name: "a", dependsOn: []string{"b"}, log: &log})
		s.AddDependency(&fakeDependency{name: "b", dependsOn: []string{"a"}, log: &log})

		assert.ErrorContains(t, s.Start(context.Background()), "cycle")
		assert.Empty(t, log)
	})

	t.Run("cancelled while waiting to retry", func(t *testing.T) {
		var log []string
		s := newTestStartup(3)
		s.backoffUnit = time.Hour
		s.AddDependency(&fakeDependency{name: "database", failures: 5, log: &log})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, s.Start(ctx), context.Canceled)
	})

	t.Run("stop reports the first error", func(t *testing.T) {
		var log []string
		s := newTestStartup(1)
		s.AddDependency(&fakeDependency{name: "database", stopErr: errors.New("close failed"), log: &log})
		require.NoError(t, s.Start(context.Background()))

		assert.EqualError(t, s.Stop(context.Background()), "close failed")
	})
}
