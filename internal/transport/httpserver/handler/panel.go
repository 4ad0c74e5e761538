package handler

import (
	"net/http"
	"strings"

	memberdomain "membership-admin/internal/domain/member"
	"membership-admin/internal/ui"
)

const formAnchor = "/#member-form"

// Index re-fetches the member list and renders the admin page. Query parameters,
// when present, replace the current search and filter.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if values.Has("q") || values.Has("status") {
		query, err := parseQuery(values)
		if err != nil {
			query = memberdomain.Query{Text: strings.TrimSpace(values.Get("q"))}
		}
		h.Panel.SetQuery(query)
	}

	h.Panel.Refresh(r.Context())
	view := h.Panel.View(r.Context())
	h.render(w, h.pages.index, indexPage{
		View:      view,
		Values:    formValues(view),
		CSRFField: csrfField(r),
	})
}

func (h *Handlers) SubmitMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	h.Panel.Submit(r.Context(), ui.BindValues(r.PostForm))
	redirectHome(w, r, "/")
}

func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.Panel.Cancel(r.Context())
	redirectHome(w, r, "/")
}

func (h *Handlers) EditMember(w http.ResponseWriter, r *http.Request) {
	id, err := memberIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Panel.Edit(r.Context(), id)
	redirectHome(w, r, formAnchor)
}

// ConfirmDelete shows the yes/no gate in front of a delete.
func (h *Handlers) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := memberIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := h.memberName(r, id, "this member")
	h.render(w, h.pages.confirm, confirmPage{
		ID:        id,
		Name:      name,
		Prompt:    ui.DeletePrompt(name),
		CSRFField: csrfField(r),
	})
}

// DeleteMemberForm deletes only when the form answered confirm=yes.
func (h *Handlers) DeleteMemberForm(w http.ResponseWriter, r *http.Request) {
	id, err := memberIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	name := h.memberName(r, id, strings.TrimSpace(r.PostFormValue("name")))
	h.Panel.Delete(r.Context(), id, name, ui.Answer(r.PostFormValue("confirm") == "yes"))
	redirectHome(w, r, "/")
}

func (h *Handlers) ReloadMembers(w http.ResponseWriter, r *http.Request) {
	h.Panel.Load(r.Context())
	redirectHome(w, r, "/")
}

// memberName prefers the stored record, then the panel's loaded copy, then fallback.
func (h *Handlers) memberName(r *http.Request, id, fallback string) string {
	if m, err := h.Members.Get(r.Context(), id); err == nil {
		return m.FullName
	}
	if m, ok := h.Panel.Member(id); ok {
		return m.FullName
	}
	if fallback == "" {
		return "this member"
	}
	return fallback
}

func redirectHome(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
