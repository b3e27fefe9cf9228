package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#0f1220;color:#e7e9f3}
header.top{padding:16px 32px;background:#161a2e;display:flex;gap:24px;align-items:center}
header.top a{color:#e7e9f3;text-decoration:none;font-weight:600}
main{padding:24px 32px}
form.filters{display:flex;flex-wrap:wrap;gap:8px;margin-bottom:24px}
form.filters select,form.filters input{padding:6px 8px;border-radius:6px;border:1px solid #30365a;background:#1c2140;color:inherit}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(280px,1fr));gap:16px}
.card{background:#1c2140;border-radius:10px;padding:16px;display:flex;flex-direction:column;gap:6px}
.card a{color:#9fb4ff}
.meta{color:#a4a9c6;font-size:14px}
.badge{display:inline-block;padding:2px 8px;border-radius:999px;font-size:12px;margin-right:4px}
.badge-open{background:#1f6f43}.badge-full{background:#8a5a00}.badge-progress{background:#2d4f9e}.badge-closed{background:#555}
.badge-priority{background:#7b2fbe}
.empty{color:#a4a9c6}
.error{background:#5c1f2a;padding:12px;border-radius:8px}
table{border-collapse:collapse}td,th{padding:6px 12px;text-align:left;border-bottom:1px solid #30365a}
button{padding:6px 14px;border-radius:6px;border:0;background:#4657d8;color:#fff;cursor:pointer}
`

// Layout 页面外壳
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		h.text(title)
		h.raw(` | SquadUp</title><style>` + styles + `</style></head><body>`)
		h.raw(`<header class="top"><a href="/ui/groups">SquadUp</a><span class="meta">Find your squad</span></header><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// ErrorPage 错误页
func ErrorPage(message string) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p class="error">`)
		h.text(message)
		h.raw(`</p><p><a href="/ui/groups">Back to groups</a></p>`)
		return h.err
	}))
}
