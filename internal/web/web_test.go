package web

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/services"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func sampleGroup() services.GroupResponse {
	at := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	return services.GroupResponse{
		ID:          "42",
		Title:       `<script>alert("x")</script> Raid`,
		Status:      models.GroupStatusOpen,
		Platform:    models.PlatformPC,
		Region:      models.RegionEU,
		MaxMembers:  6,
		IsPublic:    true,
		IsPriority:  true,
		ScheduledAt: &at,
		OwnerID:     "1",
		Owner:       &services.UserSummary{ID: "1", Username: "guardian"},
		Game:        &services.GameSummary{ID: "g", Name: "Destiny 2"},
		GameMode:    &services.GameModeSummary{ID: "m", Name: "Raid"},
		Members: []services.MemberResponse{
			{ID: "m1", UserID: "1", Role: models.RoleOwner, User: &services.UserSummary{Username: "guardian", Reputation: 120}},
			{ID: "m2", UserID: "2", Role: models.RoleMember, User: &services.UserSummary{Username: "healer"}},
		},
		Count: services.MemberCount{Members: 2},
	}
}

func TestGroupBrowser(t *testing.T) {
	html := render(t, GroupBrowser(BrowserView{
		Games:   []models.Game{{ID: "g", Name: "Destiny 2"}},
		Groups:  []services.GroupResponse{sampleGroup()},
		Filters: FilterValues{Platform: "PC", Search: `"><b>`},
	}))

	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, `&lt;script&gt;`)
	assert.NotContains(t, html, `"><b>`)
	assert.Contains(t, html, `<option value="PC" selected>`)
	assert.Contains(t, html, `Members: 2/6`)
	assert.Contains(t, html, `badge-priority`)
	assert.Contains(t, html, `href="/ui/groups/42"`)
	assert.Contains(t, html, `Sat, 14 Mar 2026 19:30 UTC`)
	assert.NotContains(t, html, `My private groups`, "anonymous viewers have no private groups")
}

func TestGroupBrowserEmptyAndError(t *testing.T) {
	assert.Contains(t, render(t, GroupBrowser(BrowserView{})), "No groups match")
	assert.Contains(t, render(t, GroupBrowser(BrowserView{Error: "limit must be <= 100"})), "limit must be &lt;= 100")
}

func TestGroupDetailActions(t *testing.T) {
	g := sampleGroup()

	tests := []struct {
		viewer string
		want   string
	}{
		{"", ""},
		{"1", `data-url="/groups/42" data-method="DELETE"`},
		{"2", `data-url="/groups/42/leave"`},
		{"3", `data-url="/groups/42/join"`},
	}
	for _, tt := range tests {
		html := render(t, GroupDetail(DetailView{Group: g, ViewerID: tt.viewer}))
		assert.Contains(t, html, "healer")
		assert.Contains(t, html, "OWNER")
		if tt.want == "" {
			assert.NotContains(t, html, "groupAction", "viewer %q", tt.viewer)
		} else {
			assert.Contains(t, html, tt.want, "viewer %q", tt.viewer)
			assert.Contains(t, html, `Authorization: "Bearer "`, "actions send the token as a header")
			assert.NotContains(t, html, `credentials: "same-origin"`)
		}
	}

	g.Status = models.GroupStatusFull
	html := render(t, GroupDetail(DetailView{Group: g, ViewerID: "3"}))
	assert.NotContains(t, html, "groupAction")
}

func TestErrorPage(t *testing.T) {
	html := render(t, ErrorPage("Group not found"))
	assert.Contains(t, html, "Group not found")
	assert.Contains(t, html, "<title>Error | SquadUp</title>")
}
