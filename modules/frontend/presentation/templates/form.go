package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
)

type formField struct {
	name     string
	label    string
	value    string
	required bool
}

func PersonCreatePage(props *viewmodels.PersonCreatePageProps) templ.Component {
	return Page("New person", personForm(props))
}

func personForm(props *viewmodels.PersonCreatePageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		form := props.Form
		if form == nil {
			form = &viewmodels.PersonFormVM{}
		}
		if err := write(w,
			`<h1 class="mb-4 text-2xl font-bold">New person</h1>`,
			`<form method="post" action="`, esc(props.PostTo), `" class="`, esc(classes(cardClass, "space-y-4")), `">`,
		); err != nil {
			return err
		}
		fields := []formField{
			{name: "last_name", label: "Last name", value: form.LastName, required: true},
			{name: "phone_number", label: "Phone number", value: form.PhoneNumber, required: true},
			{name: "location", label: "Location", value: form.Location},
		}
		for _, f := range fields {
			if err := renderField(w, f, props.Errors[f.name]); err != nil {
				return err
			}
		}
		return write(w, `<button type="submit" class="`, esc(buttonClass), `">Create</button></form>`)
	})
}

func renderField(w io.Writer, f formField, fieldErr string) error {
	inputClasses := inputClass
	if fieldErr != "" {
		inputClasses = classes(inputClass, "border-red-500")
	}
	required := ""
	if f.required {
		required = ` required`
	}
	if err := write(w,
		`<div><label class="mb-1 block font-semibold" for="`, esc(f.name), `">`, esc(f.label), `</label>`,
		`<input class="`, esc(inputClasses), `" type="text" id="`, esc(f.name), `" name="`, esc(f.name),
		`" value="`, esc(f.value), `"`, required, `>`,
	); err != nil {
		return err
	}
	if fieldErr != "" {
		if err := write(w, `<p class="mt-1 text-sm text-red-600" data-error-for="`, esc(f.name), `">`, esc(fieldErr), `</p>`); err != nil {
			return err
		}
	}
	return write(w, `</div>`)
}
