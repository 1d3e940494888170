package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
)

func PersonsPage(props *viewmodels.PersonsPageProps) templ.Component {
	return Page(props.Title, personsContent(props))
}

func personsContent(props *viewmodels.PersonsPageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<div class="mb-6 flex items-center justify-between">`,
			`<h1 class="text-2xl font-bold">`, esc(props.Title), `</h1>`,
		); err != nil {
			return err
		}
		if props.NewURL != "" {
			if err := write(w, `<a class="`, esc(buttonClass), `" href="`, esc(props.NewURL), `">New person</a>`); err != nil {
				return err
			}
		}
		if err := write(w, `</div>`); err != nil {
			return err
		}
		if err := notice(w, props.Notice); err != nil {
			return err
		}
		if len(props.Persons) == 0 {
			return write(w, `<p class="text-gray-500" data-testid="persons-empty">No persons yet.</p>`)
		}
		if err := write(w,
			`<table class="w-full border-collapse" data-testid="persons">`,
			`<thead><tr class="border-b border-gray-200 text-left">`,
			`<th class="py-2">ID</th><th class="py-2">Last name</th><th class="py-2">Phone number</th><th class="py-2">Location</th>`,
			`</tr></thead><tbody>`,
		); err != nil {
			return err
		}
		for _, p := range props.Persons {
			if err := write(w,
				`<tr class="border-b border-gray-100" data-person-id="`, esc(p.ID), `">`,
				`<td class="py-2">`, esc(p.ID), `</td>`,
				`<td class="py-2">`, esc(p.LastName), `</td>`,
				`<td class="py-2">`, esc(p.PhoneNumber), `</td>`,
				`<td class="py-2">`, esc(p.Location), `</td>`,
				`</tr>`,
			); err != nil {
				return err
			}
		}
		return write(w, `</tbody></table>`)
	})
}
