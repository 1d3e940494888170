package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

type BaseProps struct {
	Title         string
	StylesheetURL string
}

// Base renders the document shell around the children in ctx.
func Base(props *BaseProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(props.Title), `</title>`,
		); err != nil {
			return err
		}
		if props.StylesheetURL != "" {
			if err := write(w, `<link rel="stylesheet" href="`, esc(props.StylesheetURL), `">`); err != nil {
				return err
			}
		}
		if err := write(w, `</head><body class="bg-gray-50 text-gray-900"><main class="mx-auto max-w-3xl p-6">`); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</main></body></html>`)
	})
}

// Page wraps content in Base using the stylesheet stored in the render context.
func Page(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := Base(&BaseProps{Title: title, StylesheetURL: UseStylesheet(ctx)})
		return base.Render(templ.WithChildren(ctx, content), w)
	})
}

type stylesheetKey struct{}

func WithStylesheet(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, stylesheetKey{}, url)
}

func UseStylesheet(ctx context.Context) string {
	url, _ := ctx.Value(stylesheetKey{}).(string)
	return url
}
