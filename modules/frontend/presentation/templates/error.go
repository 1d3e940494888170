package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
)

func ErrorPage(props *viewmodels.ErrorPageProps) templ.Component {
	return Page(props.Title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<h1 class="mb-4 text-2xl font-bold">`, esc(props.Title), `</h1>`); err != nil {
			return err
		}
		if err := write(w,
			`<div role="alert" data-testid="error" class="`, esc(classes(noticeClass, "border-red-300 bg-red-50 text-red-900")), `">`,
			esc(props.Message), `</div>`,
		); err != nil {
			return err
		}
		if props.BackURL == "" {
			return nil
		}
		return write(w, `<p class="mt-4"><a class="text-blue-600" href="`, esc(props.BackURL), `">Back to persons</a></p>`)
	}))
}
