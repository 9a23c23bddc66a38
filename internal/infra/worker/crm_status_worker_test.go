package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/prospector/internal/entity"
)

type staticLeads []*entity.Lead

func (s staticLeads) Leads(entity.SortOption) []*entity.Lead { return s }

type recordingRefresher struct {
	calls   []string
	changed map[string]bool
	fail    map[string]bool
	cancel  context.CancelFunc
}

func (r *recordingRefresher) RefreshStatus(ctx context.Context, id string) (*entity.Lead, bool, error) {
	r.calls = append(r.calls, id)
	if r.cancel != nil {
		r.cancel()
	}
	if r.fail[id] {
		return nil, false, errors.New("crm down")
	}
	return &entity.Lead{ID: id}, r.changed[id], nil
}

func exported(id string) *entity.Lead {
	return &entity.Lead{ID: id, CRMSync: &entity.CRMSync{Platform: entity.PlatformHubSpot, ExternalID: "x-" + id}}
}

func TestRefreshAll_OnlyExportedLeads(t *testing.T) {
	leads := staticLeads{
		exported("a"),
		{ID: "b"},
		{ID: "c", CRMSync: &entity.CRMSync{Platform: entity.PlatformWebhook}},
		exported("d"),
		exported("e"),
	}
	r := &recordingRefresher{changed: map[string]bool{"a": true, "e": true}, fail: map[string]bool{"d": true}}

	changed := NewCRMStatusWorker(leads, r, time.Minute).RefreshAll(context.Background())

	assert.Equal(t, 2, changed)
	assert.Equal(t, []string{"a", "d", "e"}, r.calls)
}

func TestRefreshAll_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &recordingRefresher{cancel: cancel}

	NewCRMStatusWorker(staticLeads{exported("a"), exported("b")}, r, time.Minute).RefreshAll(ctx)

	assert.Equal(t, []string{"a"}, r.calls)
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &recordingRefresher{}
	w := NewCRMStatusWorker(staticLeads{exported("a")}, r, 0)
	assert.Equal(t, DefaultStatusInterval, w.tickInterval)

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
