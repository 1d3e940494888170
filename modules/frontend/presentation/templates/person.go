package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
)

func PersonPage(props *viewmodels.PersonPageProps) templ.Component {
	title := "Person"
	if props.Person != nil {
		title = props.Person.LastName
	}
	return Page(title, personContent(props))
}

func personContent(props *viewmodels.PersonPageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := notice(w, props.Notice); err != nil {
			return err
		}
		if p := props.Person; p != nil {
			if err := write(w,
				`<section class="`, esc(cardClass), `" data-testid="person" data-person-id="`, esc(p.ID), `">`,
				`<h1 class="mb-4 text-2xl font-bold">`, esc(p.LastName), `</h1>`,
				`<dl class="grid grid-cols-2 gap-2">`,
				`<dt class="font-semibold">ID</dt><dd>`, esc(p.ID), `</dd>`,
				`<dt class="font-semibold">Phone number</dt><dd>`, esc(p.PhoneNumber), `</dd>`,
				`<dt class="font-semibold">Location</dt><dd>`, esc(p.Location), `</dd>`,
				`</dl></section>`,
			); err != nil {
				return err
			}
		}
		if props.BackURL == "" {
			return nil
		}
		return write(w, `<p class="mt-4"><a class="text-blue-600" href="`, esc(props.BackURL), `">Back to persons</a></p>`)
	})
}
