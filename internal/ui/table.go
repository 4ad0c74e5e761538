package ui

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	memberdomain "membership-admin/internal/domain/member"
)

const (
	// ColumnCount is the number of table columns, actions included.
	ColumnCount = 11

	EmptyTableMessage     = "No members found. Add your first member to get started!"
	LoadErrorTableMessage = "Error loading members. Please check your backend connection."
)

// Actions identifies the record a row's edit and delete controls act on.
type Actions struct {
	ID    string
	Label string
}

// Row is one rendered member. Text cells are already escaped.
type Row struct {
	Name           template.HTML
	Age            template.HTML
	Gender         template.HTML
	PhoneNumber    template.HTML
	Email          template.HTML
	MembershipType template.HTML
	TrainingLevel  template.HTML
	Status         template.HTML
	BadgeClass     string
	StartDate      string
	EndDate        string
	Actions        Actions
}

var tableBodyTemplate = template.Must(template.New("tbody").Parse(`
{{- if .Message -}}
<tr>
	<td colspan="{{.Columns}}" class="empty-state">
		<p>{{.Message}}</p>
	</td>
</tr>
{{- else -}}
{{- range .Rows}}
<tr>
	<td>{{.Name}}</td>
	<td>{{.Age}}</td>
	<td>{{.Gender}}</td>
	<td>{{.PhoneNumber}}</td>
	<td>{{.Email}}</td>
	<td>{{.MembershipType}}</td>
	<td>{{.TrainingLevel}}</td>
	<td><span class="status-badge {{.BadgeClass}}">{{.Status}}</span></td>
	<td>{{.StartDate}}</td>
	<td>{{.EndDate}}</td>
	<td class="action-buttons">
		<a class="btn btn-edit" href="/members/{{.Actions.ID}}/edit" data-member-id="{{.Actions.ID}}">Edit</a>
		<a class="btn btn-delete" href="/members/{{.Actions.ID}}/delete" data-member-id="{{.Actions.ID}}" data-member-name="{{.Actions.Label}}">Delete</a>
	</td>
</tr>
{{- end}}
{{- end}}
`))

// BuildRows converts members to display rows, keeping their order.
func BuildRows(members []memberdomain.Member) []Row {
	rows := make([]Row, 0, len(members))
	for _, m := range members {
		status := m.StatusOrDefault()
		age := Placeholder
		if m.Age != nil {
			age = strconv.Itoa(*m.Age)
		}

		rows = append(rows, Row{
			Name:           safe(m.FullName),
			Age:            safe(age),
			Gender:         safe(orPlaceholder(m.Gender)),
			PhoneNumber:    safe(orPlaceholder(m.PhoneNumber)),
			Email:          safe(m.Email),
			MembershipType: safe(orPlaceholder(m.MembershipType)),
			TrainingLevel:  safe(orPlaceholder(m.TrainingLevel)),
			Status:         safe(status),
			BadgeClass:     strings.ToLower(status),
			StartDate:      formatOptionalDate(m.MembershipStartDate),
			EndDate:        formatOptionalDate(m.MembershipEndDate),
			Actions:        Actions{ID: m.ID, Label: m.FullName},
		})
	}
	return rows
}

// RenderTableBody renders rows as table body markup. No rows renders the empty-state row.
func RenderTableBody(rows []Row) template.HTML {
	if len(rows) == 0 {
		return renderBody(nil, EmptyTableMessage)
	}
	return renderBody(rows, "")
}

// RenderLoadError renders the row shown in place of data when loading failed.
func RenderLoadError() template.HTML {
	return renderBody(nil, LoadErrorTableMessage)
}

func renderBody(rows []Row, message string) template.HTML {
	var buf bytes.Buffer
	data := struct {
		Rows    []Row
		Message string
		Columns int
	}{Rows: rows, Message: message, Columns: ColumnCount}
	if err := tableBodyTemplate.Execute(&buf, data); err != nil {
		return template.HTML(`<tr><td colspan="` + strconv.Itoa(ColumnCount) + `" class="empty-state"><p>` + EscapeHTML(LoadErrorTableMessage) + `</p></td></tr>`)
	}
	return template.HTML(buf.String())
}

func safe(text string) template.HTML {
	return template.HTML(EscapeHTML(text))
}
