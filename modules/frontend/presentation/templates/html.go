package templates

import (
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

const (
	cardClass   = "rounded-lg border border-gray-200 bg-white p-6 shadow-sm"
	noticeClass = "mb-4 rounded border px-4 py-2 text-sm"
	inputClass  = "block w-full rounded border border-gray-300 px-3 py-2"
	buttonClass = "rounded bg-blue-600 px-4 py-2 font-semibold text-white"
)

func write(w io.Writer, parts ...string) error {
	for _, part := range parts {
		if _, err := io.WriteString(w, part); err != nil {
			return err
		}
	}
	return nil
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func classes(base string, overrides ...string) string {
	return twmerge.Merge(append([]string{base}, overrides...)...)
}

func notice(w io.Writer, message string) error {
	if message == "" {
		return nil
	}
	return write(w,
		`<div role="alert" class="`, esc(classes(noticeClass, "border-amber-300 bg-amber-50 text-amber-900")), `">`,
		esc(message),
		`</div>`,
	)
}
