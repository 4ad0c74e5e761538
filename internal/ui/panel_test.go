package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memberdomain "membership-admin/internal/domain/member"
	"membership-admin/internal/repository/inmemory"
	"membership-admin/pkg/logger"
)

// countingGateway wraps a real store, counting calls and optionally failing them.
type countingGateway struct {
	next  memberdomain.Gateway
	calls map[string]int
	fail  map[string]error
}

func newCountingGateway() *countingGateway {
	return &countingGateway{next: inmemory.NewMemberStore(), calls: map[string]int{}, fail: map[string]error{}}
}

func (g *countingGateway) List(ctx context.Context) ([]memberdomain.Member, error) {
	g.calls["list"]++
	if err := g.fail["list"]; err != nil {
		return nil, err
	}
	return g.next.List(ctx)
}

func (g *countingGateway) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	g.calls["get"]++
	if err := g.fail["get"]; err != nil {
		return nil, err
	}
	return g.next.Get(ctx, id)
}

func (g *countingGateway) Insert(ctx context.Context, fields memberdomain.Fields) (*memberdomain.Member, error) {
	g.calls["insert"]++
	if err := g.fail["insert"]; err != nil {
		return nil, err
	}
	return g.next.Insert(ctx, fields)
}

func (g *countingGateway) Update(ctx context.Context, id string, fields memberdomain.Fields) (*memberdomain.Member, error) {
	g.calls["update"]++
	if err := g.fail["update"]; err != nil {
		return nil, err
	}
	return g.next.Update(ctx, id, fields)
}

func (g *countingGateway) Delete(ctx context.Context, id string) error {
	g.calls["delete"]++
	if err := g.fail["delete"]; err != nil {
		return err
	}
	return g.next.Delete(ctx, id)
}

// slowListGateway holds its first List call open until release is closed. The
// result is read from the store before blocking, so it reflects the state at call time.
type slowListGateway struct {
	memberdomain.Gateway

	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func newSlowListGateway() *slowListGateway {
	return &slowListGateway{
		Gateway: inmemory.NewMemberStore(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *slowListGateway) List(ctx context.Context) ([]memberdomain.Member, error) {
	members, err := g.Gateway.List(ctx)

	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
	}
	return members, err
}

func newSlowPanel(gw *slowListGateway) *Panel {
	notifier := NewNotifier(NewMemorySlot(), time.Minute, logger.Nop())
	return NewPanel(gw, notifier, PanelConfig{Configured: true, DeleteTTL: time.Second}, logger.Nop())
}

type panelFixture struct {
	panel   *Panel
	gateway *countingGateway
	clock   *manualClock
}

func newPanelFixture(t *testing.T) panelFixture {
	t.Helper()
	gw := newCountingGateway()
	slot, clock := newManualSlot()
	notifier := NewNotifier(slot, 5*time.Second, logger.Nop())
	panel := NewPanel(gw, notifier, PanelConfig{Configured: true, DeleteTTL: 3 * time.Second}, logger.Nop())
	panel.Init(context.Background())
	return panelFixture{panel: panel, gateway: gw, clock: clock}
}

func form(values map[Field]string) MapBinding {
	b := NewMapBinding()
	for k, v := range values {
		b[k] = v
	}
	return b
}

func TestPanelSubmitCreatesWithDefaults(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()

	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Old Member", FieldEmail: "old@x.com", FieldStatus: "expired"}))
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane Doe", FieldEmail: "jane@x.com"}))

	v := f.panel.View(ctx)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "Jane Doe", string(v.Rows[0].Name))
	assert.Equal(t, "active", v.Rows[0].BadgeClass)
	assert.Equal(t, Placeholder, string(v.Rows[0].PhoneNumber))
	assert.Equal(t, Message{Text: "Member added successfully!", Kind: KindSuccess}, v.Message)
	assert.Equal(t, Creating, v.Mode)
	assert.Equal(t, "", v.Values[FieldFullName])
	assert.Equal(t, memberdomain.Stats{Total: 2, Active: 1, Expired: 1}, v.Stats)

	created, err := f.gateway.next.Get(ctx, v.Rows[0].Actions.ID)
	require.NoError(t, err)
	assert.Equal(t, memberdomain.DefaultStatus, created.Status)
	assert.Nil(t, created.PhoneNumber)
	assert.Nil(t, created.Age)
}

func TestPanelSubmitValidationSkipsBackend(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()

	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "", FieldEmail: "jane@x.com"}))

	assert.Zero(t, f.gateway.calls["insert"])
	v := f.panel.View(ctx)
	assert.True(t, v.HasMessage)
	assert.Equal(t, KindError, v.Message.Kind)
	assert.Equal(t, "jane@x.com", v.Values[FieldEmail])
}

func TestPanelSubmitBackendError(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.gateway.fail["insert"] = &memberdomain.BackendError{Message: "network down"}

	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane", FieldEmail: "j@x.com"}))

	v := f.panel.View(ctx)
	assert.Equal(t, Message{Text: "Error adding member: network down", Kind: KindError}, v.Message)
	assert.Equal(t, "Jane", v.Values[FieldFullName])
}

func TestPanelEditThenUpdate(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane", FieldEmail: "j@x.com"}))
	id := f.panel.View(ctx).Rows[0].Actions.ID

	f.panel.Edit(ctx, id)
	v := f.panel.View(ctx)
	assert.Equal(t, Editing, v.Mode)
	assert.Equal(t, id, v.EditingID)
	assert.True(t, v.FocusForm)
	assert.Equal(t, "Edit Member", v.Title)
	assert.Equal(t, "Jane", v.Values[FieldFullName])
	assert.False(t, f.panel.View(ctx).FocusForm)

	values := v.Values
	values[FieldFullName] = "Jane Doe"
	values[FieldStatus] = "suspended"
	f.panel.Submit(ctx, MapBinding(values))

	v = f.panel.View(ctx)
	assert.Equal(t, Creating, v.Mode)
	assert.Equal(t, "Member updated successfully!", v.Message.Text)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, id, v.Rows[0].Actions.ID)
	assert.Equal(t, "Jane Doe", string(v.Rows[0].Name))
	assert.Equal(t, 1, f.gateway.calls["update"])
	assert.Equal(t, 1, f.gateway.calls["insert"])
}

func TestPanelEditError(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()

	f.panel.Edit(ctx, "missing")

	v := f.panel.View(ctx)
	assert.Equal(t, Creating, v.Mode)
	assert.Equal(t, "Error loading member: member not found", v.Message.Text)
}

func TestPanelCancel(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane", FieldEmail: "j@x.com"}))
	f.panel.Edit(ctx, f.panel.View(ctx).Rows[0].Actions.ID)

	f.panel.Cancel(ctx)

	v := f.panel.View(ctx)
	assert.Equal(t, Creating, v.Mode)
	assert.Equal(t, Message{Text: "Edit cancelled.", Kind: KindSuccess}, v.Message)
}

func TestPanelDeleteDeclined(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane", FieldEmail: "j@x.com"}))
	id := f.panel.View(ctx).Rows[0].Actions.ID

	var prompt string
	f.panel.Delete(ctx, id, "Jane", ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))

	assert.Equal(t, "Are you sure you want to delete Jane? This action cannot be undone.", prompt)
	assert.Zero(t, f.gateway.calls["delete"])
	assert.Len(t, f.panel.View(ctx).Rows, 1)
}

func TestPanelDeleteConfirmed(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane", FieldEmail: "j@x.com"}))
	id := f.panel.View(ctx).Rows[0].Actions.ID

	f.panel.Delete(ctx, id, "Jane", Answer(true))

	v := f.panel.View(ctx)
	assert.Empty(t, v.Rows)
	assert.Contains(t, string(v.TableBody), EmptyTableMessage)
	assert.Equal(t, "Jane has been deleted successfully.", v.Message.Text)
	last := f.clock.timers[len(f.clock.timers)-1]
	assert.Equal(t, 3*time.Second, last.ttl)
}

func TestPanelDeleteError(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.gateway.fail["delete"] = errors.New("timeout")

	f.panel.Delete(ctx, "x", "Jane", Answer(true))

	assert.Equal(t, "Error deleting member: timeout", f.panel.View(ctx).Message.Text)
}

func TestPanelSearchAndFilter(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane Smith", FieldEmail: "js@x.com", FieldStatus: "expired"}))
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane Doe", FieldEmail: "jd@x.com", FieldStatus: "active"}))
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Bob", FieldEmail: "bob@x.com", FieldStatus: "active"}))

	f.panel.Search("jane")
	f.panel.FilterStatus("active")

	v := f.panel.View(ctx)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Jane Doe", string(v.Rows[0].Name))
	assert.Equal(t, "jane", v.Query)
	assert.Equal(t, "active", v.StatusFilter)
	assert.Equal(t, 3, v.Stats.Total)

	// Filter survives a reload.
	f.panel.Load(ctx)
	assert.Len(t, f.panel.View(ctx).Rows, 1)

	f.panel.SetQuery(memberdomain.Query{})
	assert.Len(t, f.panel.View(ctx).Rows, 3)
}

func TestPanelActiveFilterIncludesDefaultedStatus(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane Doe", FieldEmail: "jane@x.com"}))

	f.panel.SetQuery(memberdomain.Query{Text: "jane", Status: memberdomain.StatusActive})

	v := f.panel.View(ctx)
	assert.Equal(t, 1, v.Stats.Active)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Jane Doe", string(v.Rows[0].Name))
	assert.Equal(t, "active", v.Rows[0].BadgeClass)
}

func TestPanelLoadFailure(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.gateway.fail["list"] = &memberdomain.BackendError{Message: "connection refused"}

	f.panel.Load(ctx)

	v := f.panel.View(ctx)
	assert.True(t, v.LoadFailed)
	assert.False(t, v.Loading)
	assert.Contains(t, string(v.TableBody), LoadErrorTableMessage)
	assert.Equal(t, Message{Text: "Error loading members: connection refused", Kind: KindError}, v.Message)

	delete(f.gateway.fail, "list")
	f.panel.Load(ctx)
	assert.False(t, f.panel.View(ctx).LoadFailed)
}

func TestPanelInitWithoutCredentials(t *testing.T) {
	gw := newCountingGateway()
	slot, _ := newManualSlot()
	panel := NewPanel(gw, NewNotifier(slot, time.Second, logger.Nop()), PanelConfig{}, logger.Nop())
	ctx := context.Background()

	assert.True(t, panel.View(ctx).Loading)
	panel.Init(ctx)

	assert.Zero(t, gw.calls["list"])
	v := panel.View(ctx)
	assert.Equal(t, KindError, v.Message.Kind)
	assert.Contains(t, v.Message.Text, "configure")
}

func TestPanelViewDoesNotWaitForBackend(t *testing.T) {
	gw := newSlowListGateway()
	panel := newSlowPanel(gw)
	ctx := context.Background()

	loadDone := make(chan struct{})
	go func() {
		panel.Load(ctx)
		close(loadDone)
	}()
	<-gw.entered

	viewDone := make(chan View, 1)
	go func() { viewDone <- panel.View(ctx) }()

	select {
	case v := <-viewDone:
		assert.True(t, v.Loading)
	case <-time.After(time.Second):
		t.Fatal("View waited for the in-flight List call")
	}

	close(gw.release)
	<-loadDone
	assert.False(t, panel.View(ctx).Loading)
}

func TestPanelDiscardsSupersededLoad(t *testing.T) {
	gw := newSlowListGateway()
	panel := newSlowPanel(gw)
	ctx := context.Background()

	firstDone := make(chan struct{})
	go func() {
		panel.Load(ctx)
		close(firstDone)
	}()
	<-gw.entered

	_, err := gw.Insert(ctx, memberdomain.Fields{FullName: "Late Arrival", Email: "late@x.com"})
	require.NoError(t, err)
	panel.Load(ctx)

	close(gw.release)
	<-firstDone

	v := panel.View(ctx)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Late Arrival", string(v.Rows[0].Name))
	assert.Equal(t, 1, v.Stats.Total)
}

func TestPanelSubmitKeepsEditStartedDuringInsert(t *testing.T) {
	f := newPanelFixture(t)
	ctx := context.Background()
	f.panel.Submit(ctx, form(map[Field]string{FieldFullName: "Jane Doe", FieldEmail: "jane@x.com"}))
	jane := f.panel.View(ctx).Rows[0].Actions.ID

	// The form moved on to another record before the insert finished.
	f.panel.Edit(ctx, jane)
	f.panel.resetFormIf("", false)

	id, editing := f.panel.form.EditingID()
	assert.True(t, editing)
	assert.Equal(t, jane, id)
}

func TestPanelRefreshRecoversFromStartupFailure(t *testing.T) {
	gw := newCountingGateway()
	gw.fail["list"] = &memberdomain.BackendError{Message: "connection refused"}
	slot, _ := newManualSlot()
	panel := NewPanel(gw, NewNotifier(slot, time.Minute, logger.Nop()), PanelConfig{Configured: true}, logger.Nop())
	ctx := context.Background()

	panel.Init(ctx)
	require.True(t, panel.View(ctx).LoadFailed)

	delete(gw.fail, "list")
	_, err := gw.Insert(ctx, memberdomain.Fields{FullName: "Jane Doe", Email: "jane@x.com"})
	require.NoError(t, err)

	panel.Refresh(ctx)
	v := panel.View(ctx)
	assert.False(t, v.LoadFailed)
	assert.Len(t, v.Rows, 1)
}

func TestPanelRefreshWithoutCredentialsSkipsBackend(t *testing.T) {
	gw := newCountingGateway()
	slot, _ := newManualSlot()
	panel := NewPanel(gw, NewNotifier(slot, time.Minute, logger.Nop()), PanelConfig{}, logger.Nop())
	ctx := context.Background()

	panel.Init(ctx)
	panel.Refresh(ctx)

	assert.Zero(t, gw.calls["list"])
	assert.True(t, panel.View(ctx).LoadFailed)
}
