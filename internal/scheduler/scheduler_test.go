package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDigest struct {
	enabled bool
	sent    atomic.Int32
	err     error
}

func (f *fakeDigest) IsEnabled() bool { return f.enabled }

func (f *fakeDigest) SendDigest(ctx context.Context) error {
	f.sent.Add(1)
	return f.err
}

type fakeWarmer struct {
	calls atomic.Int32
}

func (f *fakeWarmer) Warm(ctx context.Context) (int, error) {
	f.calls.Add(1)
	return 5, nil
}

var nop = zerolog.New(io.Discard)

func TestNewRegistersEnabledJobs(t *testing.T) {
	s, err := New(Config{DigestCron: "0 7 * * 1", WarmInterval: time.Minute}, &fakeDigest{enabled: true}, &fakeWarmer{}, nop)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"digest", "catalog-warm"}, s.Jobs())
}

func TestNewSkipsDisabledJobs(t *testing.T) {
	s, err := New(Config{DigestCron: "0 7 * * 1"}, &fakeDigest{enabled: false}, &fakeWarmer{}, nop)
	require.NoError(t, err)
	assert.Empty(t, s.Jobs())

	s, err = New(Config{WarmInterval: time.Minute}, nil, nil, nop)
	require.NoError(t, err)
	assert.Empty(t, s.Jobs())
}

func TestNewRejectsBadCron(t *testing.T) {
	_, err := New(Config{DigestCron: "every tuesday"}, &fakeDigest{enabled: true}, nil, nop)
	assert.Error(t, err)
}

func TestJobsCallCollaborators(t *testing.T) {
	digest := &fakeDigest{enabled: true, err: errors.New("ses down")}
	warmer := &fakeWarmer{}
	s, err := New(Config{DigestCron: "0 7 * * 1", WarmInterval: time.Hour}, digest, warmer, nop)
	require.NoError(t, err)

	s.sendDigest()
	s.warmCatalog()

	assert.Equal(t, int32(1), digest.sent.Load())
	assert.Equal(t, int32(1), warmer.calls.Load())
}

func TestStartRunsWarmUpImmediately(t *testing.T) {
	warmer := &fakeWarmer{}
	s, err := New(Config{WarmInterval: time.Hour}, nil, warmer, nop)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return warmer.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
