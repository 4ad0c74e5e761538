package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memberdomain "membership-admin/internal/domain/member"
)

func TestBuildRows(t *testing.T) {
	phone := "0700"
	start := "2025-01-15"
	rows := BuildRows([]memberdomain.Member{
		{ID: "1", FullName: "O'Brien & <b>", Email: "ob@x.com", PhoneNumber: &phone, Status: "Expired", MembershipStartDate: &start},
		{ID: "2", FullName: "Jane", Email: "j@x.com"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "O&#039;Brien &amp; &lt;b&gt;", string(rows[0].Name))
	assert.Equal(t, "expired", rows[0].BadgeClass)
	assert.Equal(t, "15/01/2025", rows[0].StartDate)
	assert.Equal(t, Placeholder, rows[0].EndDate)
	assert.Equal(t, "0700", string(rows[0].PhoneNumber))
	assert.Equal(t, Actions{ID: "1", Label: "O'Brien & <b>"}, rows[0].Actions)

	assert.Equal(t, Placeholder, string(rows[1].Age))
	assert.Equal(t, Placeholder, string(rows[1].Gender))
	assert.Equal(t, memberdomain.DefaultStatus, string(rows[1].Status))
	assert.Equal(t, "active", rows[1].BadgeClass)
}

func TestRenderTableBodyEscapesText(t *testing.T) {
	body := string(RenderTableBody(BuildRows([]memberdomain.Member{{ID: "1", FullName: "O'Brien & <b>", Email: "x@x.com"}})))

	assert.NotContains(t, body, "<b>")
	assert.Contains(t, body, "O&#039;Brien &amp; &lt;b&gt;")
	assert.Contains(t, body, `href="/members/1/edit"`)
	assert.Equal(t, ColumnCount, strings.Count(body, "<td"))
}

func TestRenderTableBodyPlaceholders(t *testing.T) {
	empty := string(RenderTableBody(nil))
	assert.Contains(t, empty, EmptyTableMessage)
	assert.Contains(t, empty, `colspan="11"`)

	failed := string(RenderLoadError())
	assert.Contains(t, failed, LoadErrorTableMessage)
	assert.NotContains(t, failed, EmptyTableMessage)
}
