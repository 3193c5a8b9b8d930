package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

type registryStub struct {
	calls int
	err   error
}

func (r *registryStub) Refresh(context.Context) (*models.Catalog, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return models.NewCatalog(nil, nil, time.Now()), nil
}

type counterStub struct {
	counts map[string]int
	err    error
}

func (c counterStub) CountCurrentByStatus(context.Context) (map[string]int, error) {
	return c.counts, c.err
}

type gaugeStub struct {
	published map[string]int
}

func (g *gaugeStub) SetCurrentPresence(counts map[string]int) {
	g.published = counts
}

func TestRunOncePublishesCounts(t *testing.T) {
	registry := &registryStub{}
	gauge := &gaugeStub{}
	w := NewPresenceSnapshotWorker(registry, counterStub{counts: map[string]int{"REMOTE": 3, "IN_OFFICE": 2}}, gauge, nil)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Equal(t, 1, registry.calls)
	assert.Equal(t, map[string]int{"REMOTE": 3, "IN_OFFICE": 2}, gauge.published)
}

func TestRunOnceKeepsGaugeWhenRegistryFails(t *testing.T) {
	gauge := &gaugeStub{}
	w := NewPresenceSnapshotWorker(&registryStub{err: errors.New("db down")}, counterStub{counts: map[string]int{"REMOTE": 1}}, gauge, nil)

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh registry")
	assert.Equal(t, map[string]int{"REMOTE": 1}, gauge.published)
}

func TestRunOnceCountFailureLeavesGauge(t *testing.T) {
	gauge := &gaugeStub{}
	w := NewPresenceSnapshotWorker(&registryStub{}, counterStub{err: errors.New("timeout")}, gauge, nil)

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Nil(t, gauge.published)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewPresenceSnapshotWorker(nil, nil, nil, nil)
	assert.Error(t, w.Start("every now and then"))
}

func TestStartAndStop(t *testing.T) {
	w := NewPresenceSnapshotWorker(&registryStub{}, counterStub{}, &gaugeStub{}, nil)
	require.NoError(t, w.Start(""))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
}

func TestTickSkipsOverlappingRun(t *testing.T) {
	registry := &registryStub{}
	w := NewPresenceSnapshotWorker(registry, nil, nil, nil)
	w.running = true

	w.tick()
	assert.Zero(t, registry.calls)
}
