package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/Gopher0727/SquadUp/internal/models"
	"github.com/Gopher0727/SquadUp/internal/services"
)

// FilterValues 筛选表单的原始取值，用于回填
type FilterValues struct {
	GameID    string
	Platform  string
	Region    string
	Status    string
	IsPublic  string
	Search    string
	SortBy    string
	SortOrder string
}

// BrowserView 队伍列表页
type BrowserView struct {
	Games    []models.Game
	Groups   []services.GroupResponse
	Filters  FilterValues
	ViewerID string
	Error    string
}

// DetailView 队伍详情页
type DetailView struct {
	Group    services.GroupResponse
	ViewerID string
}

// GroupBrowser 筛选表单 + 队伍卡片
func GroupBrowser(view BrowserView) templ.Component {
	return Layout("Groups", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Find a squad</h1>`)
		filterForm(h, view)

		if view.Error != "" {
			h.raw(`<p class="error">`)
			h.text(view.Error)
			h.raw(`</p>`)
			return h.err
		}
		if len(view.Groups) == 0 {
			h.raw(`<p class="empty">No groups match these filters.</p>`)
			return h.err
		}

		h.raw(`<section class="grid">`)
		for i := range view.Groups {
			groupCard(h, &view.Groups[i])
		}
		h.raw(`</section>`)
		return h.err
	}))
}

func filterForm(h *htmlWriter, view BrowserView) {
	f := view.Filters
	h.raw(`<form class="filters" method="get" action="/ui/groups">`)

	h.raw(`<select name="gameId">`)
	h.option("", "All games", f.GameID)
	for _, g := range view.Games {
		h.option(g.ID, g.Name, f.GameID)
	}
	h.raw(`</select>`)

	h.raw(`<select name="platform">`)
	h.option("", "Any platform", f.Platform)
	for _, p := range models.Platforms {
		h.option(string(p), string(p), f.Platform)
	}
	h.raw(`</select>`)

	h.raw(`<select name="region">`)
	h.option("", "Any region", f.Region)
	for _, r := range models.Regions {
		h.option(string(r), string(r), f.Region)
	}
	h.raw(`</select>`)

	h.raw(`<select name="status">`)
	h.option("", "Any status", f.Status)
	for _, s := range models.GroupStatuses {
		h.option(string(s), strings.ReplaceAll(string(s), "_", " "), f.Status)
	}
	h.raw(`</select>`)

	h.raw(`<select name="isPublic">`)
	h.option("", "Public groups", f.IsPublic)
	if view.ViewerID != "" {
		h.option("false", "My private groups", f.IsPublic)
	}
	h.raw(`</select>`)

	h.raw(`<input type="search" name="search" placeholder="Search title or description" value="`)
	h.text(f.Search)
	h.raw(`"/>`)

	h.raw(`<select name="sortBy">`)
	h.option("createdAt", "Newest", f.SortBy)
	h.option("scheduledAt", "Schedule", f.SortBy)
	h.option("title", "Title", f.SortBy)
	h.raw(`</select><select name="sortOrder">`)
	h.option("desc", "Descending", f.SortOrder)
	h.option("asc", "Ascending", f.SortOrder)
	h.raw(`</select><button type="submit">Filter</button></form>`)
}

func groupCard(h *htmlWriter, g *services.GroupResponse) {
	h.raw(`<article class="card"><div>`)
	h.raw(`<span class="` + statusClass(string(g.Status)) + `">`)
	h.text(string(g.Status))
	h.raw(`</span>`)
	if g.IsPriority {
		h.raw(`<span class="badge badge-priority">Priority</span>`)
	}
	h.raw(`</div><h3><a href="`)
	h.text(groupURL(g.ID))
	h.raw(`">`)
	h.text(g.Title)
	h.raw(`</a></h3><div class="meta">`)
	if g.Game != nil {
		h.text(g.Game.Name)
	}
	if g.GameMode != nil {
		h.raw(` &middot; `)
		h.text(g.GameMode.Name)
	}
	h.raw(`</div><div class="meta">`)
	h.text(string(g.Platform) + " · " + string(g.Region))
	h.raw(`</div><div class="meta">Members: `)
	h.text(itoa(g.Count.Members) + "/" + itoa(g.MaxMembers))
	h.raw(`</div><div class="meta">`)
	h.text(formatSchedule(g.ScheduledAt, g.Timezone))
	h.raw(`</div>`)
	if g.Owner != nil {
		h.raw(`<div class="meta">Hosted by `)
		h.text(g.Owner.Username)
		h.raw(`</div>`)
	}
	h.raw(`</article>`)
}

// GroupDetail 队伍详情与成员列表
func GroupDetail(view DetailView) templ.Component {
	g := view.Group
	return Layout(g.Title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p><a href="/ui/groups">&larr; All groups</a></p><h1>`)
		h.text(g.Title)
		h.raw(`</h1><p><span class="` + statusClass(string(g.Status)) + `">`)
		h.text(string(g.Status))
		h.raw(`</span>`)
		if g.IsPriority {
			h.raw(`<span class="badge badge-priority">Priority</span>`)
		}
		if !g.IsPublic {
			h.raw(`<span class="badge badge-closed">Private</span>`)
		}
		h.raw(`</p>`)

		if g.Description != nil {
			h.raw(`<p>`)
			h.text(*g.Description)
			h.raw(`</p>`)
		}

		h.raw(`<p class="meta">`)
		if g.Game != nil {
			h.text(g.Game.Name)
		}
		if g.GameMode != nil {
			h.text(" · " + g.GameMode.Name)
		}
		h.text(" · " + string(g.Platform) + " · " + string(g.Region) + " · " + formatSchedule(g.ScheduledAt, g.Timezone))
		h.raw(`</p><h2>Members (`)
		h.text(itoa(g.Count.Members) + "/" + itoa(g.MaxMembers))
		h.raw(`)</h2><table><thead><tr><th>Player</th><th>Role</th><th>Reputation</th></tr></thead><tbody>`)
		for _, m := range g.Members {
			h.raw(`<tr><td>`)
			if m.User != nil {
				h.text(m.User.Username)
			} else {
				h.text(m.UserID)
			}
			h.raw(`</td><td>`)
			h.text(string(m.Role))
			h.raw(`</td><td>`)
			if m.User != nil {
				h.text(itoa(m.User.Reputation))
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		actions(h, &g, view.ViewerID)
		return h.err
	}))
}

// actions 根据身份渲染加入 / 离开 / 删除按钮
// 脚本从 cookie 读出令牌放进 Authorization 头，写接口不接受 cookie 认证
func actions(h *htmlWriter, g *services.GroupResponse, viewerID string) {
	if viewerID == "" {
		return
	}
	var action, label, method string
	switch {
	case g.OwnerID == viewerID:
		action, label, method = "", "Delete group", "DELETE"
	case g.IsMember(viewerID):
		action, label, method = "/leave", "Leave group", "POST"
	case g.Status == models.GroupStatusOpen:
		action, label, method = "/join", "Join group", "POST"
	default:
		return
	}

	h.raw(`<p><button id="groupAction" data-url="/groups/`)
	h.text(g.ID + action)
	h.raw(`" data-method="` + method + `">`)
	h.text(label)
	h.raw(`</button> <span id="actionResult" class="meta"></span></p>`)
	h.raw(`<script>
document.getElementById("groupAction").addEventListener("click", async (e) => {
  const btn = e.currentTarget;
  const token = (document.cookie.match(/(?:^|; )squadup_token=([^;]*)/) || [])[1];
  const headers = token ? { Authorization: "Bearer " + decodeURIComponent(token) } : {};
  const res = await fetch(btn.dataset.url, { method: btn.dataset.method, headers });
  const data = await res.json().catch(() => ({}));
  document.getElementById("actionResult").textContent = data.message || data.error || res.statusText;
  if (res.ok) { setTimeout(() => location.assign(btn.dataset.method === "DELETE" ? "/ui/groups" : location.pathname), 600); }
});
</script>`)
}
