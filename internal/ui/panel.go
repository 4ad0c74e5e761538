package ui

import (
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	memberdomain "membership-admin/internal/domain/member"
	"membership-admin/pkg/logger"
)

const (
	msgAdded          = "Member added successfully!"
	msgUpdated        = "Member updated successfully!"
	msgCancelled      = "Edit cancelled."
	msgNotConfigured  = "Please configure your backend credentials before using the app."
	msgDeleteQuestion = "Are you sure you want to delete %s? This action cannot be undone."
	msgDeleted        = "%s has been deleted successfully."
)

// Confirmer gates destructive actions. Returning false aborts with no side effects.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Answer is a confirmation decided before the prompt is shown.
type Answer bool

func (a Answer) Confirm(string) bool {
	return bool(a)
}

// Options are the closed enumerations offered by the form and the status filter.
type Options struct {
	MembershipTypes []string `json:"membership_types"`
	Statuses        []string `json:"statuses"`
	Genders         []string `json:"genders"`
	TrainingLevels  []string `json:"training_levels"`
}

type PanelConfig struct {
	Options Options
	// Configured is false when backend credentials are placeholders.
	Configured bool
	DeleteTTL  time.Duration
}

// View is a rendering snapshot of the panel.
type View struct {
	Title        string
	SubmitLabel  string
	Mode         Mode
	EditingID    string
	Values       map[Field]string
	Rows         []Row
	TableBody    template.HTML
	Loading      bool
	LoadFailed   bool
	Stats        memberdomain.Stats
	Message      Message
	HasMessage   bool
	Query        string
	StatusFilter string
	Options      Options
	FocusForm    bool
}

// Panel owns all admin page state. mu guards that state only; gateway and message
// slot calls run without it, so a slow backend delays the calling action and never
// a concurrent View.
type Panel struct {
	mu sync.Mutex

	gateway  memberdomain.Gateway
	form     *FormController
	filter   *memberdomain.Filter
	notifier *Notifier
	cfg      PanelConfig
	log      logger.Logger

	loaded     bool
	loadFailed bool
	stats      memberdomain.Stats
	focusForm  bool

	// loadSeq numbers List calls; appliedSeq is the newest one whose result is shown.
	loadSeq    uint64
	appliedSeq uint64
}

func NewPanel(gateway memberdomain.Gateway, notifier *Notifier, cfg PanelConfig, log logger.Logger) *Panel {
	return &Panel{
		gateway:  gateway,
		form:     NewFormController(NewMapBinding()),
		filter:   memberdomain.NewFilter(),
		notifier: notifier,
		cfg:      cfg,
		log:      logger.Component(log, "panel"),
	}
}

// Init loads the member list, unless credentials were never configured.
func (p *Panel) Init(ctx context.Context) {
	if !p.cfg.Configured {
		p.log.Warn("panel: backend credentials not configured, skipping load")
		p.mu.Lock()
		p.loadFailed = true
		p.mu.Unlock()
		p.notifier.Show(ctx, msgNotConfigured, KindError)
		return
	}
	p.load(ctx)
}

func (p *Panel) Load(ctx context.Context) {
	p.load(ctx)
}

// Refresh re-fetches the list for a page view. Without credentials it leaves the
// not-configured state from Init untouched.
func (p *Panel) Refresh(ctx context.Context) {
	if !p.cfg.Configured {
		return
	}
	p.load(ctx)
}

// Submit reads input into the form, then inserts or updates depending on the mode.
// A nil input submits the values already held by the form.
func (p *Panel) Submit(ctx context.Context, input Binding) {
	p.mu.Lock()
	if input != nil {
		copyBinding(p.form.binding, input)
	}
	fields, err := p.form.Read()
	id, editing := p.form.EditingID()
	p.mu.Unlock()

	if err != nil {
		p.notifier.Show(ctx, err.Error(), KindError)
		return
	}

	if editing {
		if _, err := p.gateway.Update(ctx, id, fields); err != nil {
			p.log.BusinessError("panel: update failed", err, "id", id)
			p.notifier.Show(ctx, "Error updating member: "+err.Error(), KindError)
			return
		}
		p.resetFormIf(id, true)
		p.load(ctx)
		p.notifier.Show(ctx, msgUpdated, KindSuccess)
		return
	}

	if _, err := p.gateway.Insert(ctx, fields); err != nil {
		p.log.BusinessError("panel: insert failed", err)
		p.notifier.Show(ctx, "Error adding member: "+err.Error(), KindError)
		return
	}
	p.resetFormIf("", false)
	p.load(ctx)
	p.notifier.Show(ctx, msgAdded, KindSuccess)
}

func (p *Panel) Cancel(ctx context.Context) {
	p.mu.Lock()
	p.form.Reset()
	p.focusForm = false
	p.mu.Unlock()

	p.notifier.Show(ctx, msgCancelled, KindSuccess)
}

// Edit fetches one record into the form and asks the view to bring the form into focus.
func (p *Panel) Edit(ctx context.Context, id string) {
	m, err := p.gateway.Get(ctx, id)
	if err != nil {
		p.log.BusinessError("panel: edit fetch failed", err, "id", id)
		p.notifier.Show(ctx, "Error loading member: "+err.Error(), KindError)
		return
	}

	p.mu.Lock()
	p.form.Populate(*m)
	p.focusForm = true
	p.mu.Unlock()
}

// Delete asks confirm first; a declined prompt performs no call.
func (p *Panel) Delete(ctx context.Context, id, name string, confirm Confirmer) {
	if confirm == nil || !confirm.Confirm(DeletePrompt(name)) {
		return
	}

	if err := p.gateway.Delete(ctx, id); err != nil {
		p.log.BusinessError("panel: delete failed", err, "id", id)
		p.notifier.Show(ctx, "Error deleting member: "+err.Error(), KindError)
		return
	}
	p.resetFormIf(id, true)
	p.load(ctx)
	p.notifier.ShowFor(ctx, fmt.Sprintf(msgDeleted, name), KindSuccess, p.cfg.DeleteTTL)
}

func (p *Panel) Search(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := p.filter.Query()
	q.Text = text
	p.filter.Apply(q)
}

func (p *Panel) FilterStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := p.filter.Query()
	q.Status = status
	p.filter.Apply(q)
}

// SetQuery replaces both search text and status filter at once.
func (p *Panel) SetQuery(q memberdomain.Query) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter.Apply(q)
}

// Member looks up a loaded record by id.
func (p *Panel) Member(id string) (memberdomain.Member, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range p.filter.All() {
		if m.ID == id {
			return m, true
		}
	}
	return memberdomain.Member{}, false
}

// View snapshots the panel. A pending focus request is consumed by the snapshot that reports it.
func (p *Panel) View(ctx context.Context) View {
	p.mu.Lock()
	id, _ := p.form.EditingID()
	q := p.filter.Query()
	rows := BuildRows(p.filter.Filtered())

	v := View{
		Title:        p.form.Title(),
		SubmitLabel:  p.form.SubmitLabel(),
		Mode:         p.form.Mode(),
		EditingID:    id,
		Values:       p.form.Values(),
		Rows:         rows,
		Loading:      !p.loaded && !p.loadFailed,
		LoadFailed:   p.loadFailed,
		Stats:        p.stats,
		Query:        q.Text,
		StatusFilter: q.Status,
		Options:      p.cfg.Options,
		FocusForm:    p.focusForm,
	}
	p.focusForm = false
	p.mu.Unlock()

	if v.LoadFailed {
		v.TableBody = RenderLoadError()
	} else {
		v.TableBody = RenderTableBody(rows)
	}
	v.Message, v.HasMessage = p.notifier.Current(ctx)
	return v
}

// resetFormIf clears the form when it still targets the record the finished call was
// about: the same edited id, or creation mode when editing is false. Edits started
// while the call was in flight are kept.
func (p *Panel) resetFormIf(id string, editing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentID, currentEditing := p.form.EditingID()
	if currentEditing != editing || currentID != id {
		return
	}
	p.form.Reset()
}

// DeletePrompt is the confirmation question for deleting the named member.
func DeletePrompt(name string) string {
	return fmt.Sprintf(msgDeleteQuestion, name)
}

// load fetches the list and replaces the loaded set, unless a List call issued
// later has already been applied.
func (p *Panel) load(ctx context.Context) {
	p.mu.Lock()
	p.loadSeq++
	seq := p.loadSeq
	p.mu.Unlock()

	members, err := p.gateway.List(ctx)

	p.mu.Lock()
	stale := seq < p.appliedSeq
	if !stale {
		p.appliedSeq = seq
		if err != nil {
			p.loadFailed = true
			p.filter.SetAll(nil)
		} else {
			p.filter.SetAll(members)
			p.stats = memberdomain.ComputeStats(members)
			p.loaded = true
			p.loadFailed = false
		}
	}
	p.mu.Unlock()

	if stale {
		p.log.Debug("panel: discarded superseded load", "seq", seq, "err", err)
		return
	}
	if err != nil {
		p.log.BusinessError("panel: load failed", err)
		p.notifier.Show(ctx, "Error loading members: "+err.Error(), KindError)
		return
	}
	p.log.Debug("panel: members loaded", "count", len(members))
}
