package web

import (
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// htmlWriter 记录第一次写入错误，后续写入直接跳过
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text 写入转义后的文本，属性值同样使用它
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) option(value, label, selected string) {
	h.raw(`<option value="`)
	h.text(value)
	h.raw(`"`)
	if value == selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func formatSchedule(t *time.Time, tz *string) string {
	if t == nil {
		return "Flexible"
	}
	out := t.UTC().Format("Mon, 02 Jan 2006 15:04 UTC")
	if tz != nil && *tz != "" {
		out += " (" + *tz + ")"
	}
	return out
}

func groupURL(id string) string {
	return "/ui/groups/" + url.PathEscape(id)
}

func statusClass(status string) string {
	switch status {
	case "OPEN":
		return "badge badge-open"
	case "FULL":
		return "badge badge-full"
	case "IN_PROGRESS":
		return "badge badge-progress"
	}
	return "badge badge-closed"
}
