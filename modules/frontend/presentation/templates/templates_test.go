package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/person-directory/modules/frontend/presentation/viewmodels"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	ctx := WithStylesheet(context.Background(), "/assets/css/main.abc123.css")
	require.NoError(t, c.Render(ctx, &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestPersonsPage_RendersRows(t *testing.T) {
	t.Parallel()

	doc := render(t, PersonsPage(&viewmodels.PersonsPageProps{
		Title:  "Person",
		NewURL: "/persons/new",
		Persons: []*viewmodels.Person{
			{ID: "1", LastName: "Doe", PhoneNumber: "555", Location: "Berlin"},
			{ID: "2", LastName: "<script>alert(1)</script>", PhoneNumber: "556"},
		},
	}))

	assert.Equal(t, "Person", doc.Find("title").Text())
	href, _ := doc.Find(`link[rel="stylesheet"]`).Attr("href")
	assert.Equal(t, "/assets/css/main.abc123.css", href)

	rows := doc.Find(`table[data-testid="persons"] tbody tr`)
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "Berlin", rows.Eq(0).Find("td").Eq(3).Text())
	assert.Equal(t, "<script>alert(1)</script>", rows.Eq(1).Find("td").Eq(1).Text())
	assert.Equal(t, 0, doc.Find("tbody script").Length())
	assert.Equal(t, 0, doc.Find(`[role="alert"]`).Length())
}

func TestPersonsPage_EmptyWithNotice(t *testing.T) {
	t.Parallel()

	doc := render(t, PersonsPage(&viewmodels.PersonsPageProps{Title: "Person", Notice: "down"}))

	assert.Equal(t, 1, doc.Find(`[data-testid="persons-empty"]`).Length())
	assert.Equal(t, "down", doc.Find(`[role="alert"]`).Text())
	assert.Equal(t, 0, doc.Find("table").Length())
}

func TestPersonPage(t *testing.T) {
	t.Parallel()

	doc := render(t, PersonPage(&viewmodels.PersonPageProps{
		Person:  &viewmodels.Person{ID: "7", LastName: "Doe", PhoneNumber: "555", Location: ""},
		BackURL: "/persons",
	}))

	section := doc.Find(`section[data-testid="person"]`)
	id, _ := section.Attr("data-person-id")
	assert.Equal(t, "7", id)
	assert.Equal(t, "Doe", section.Find("h1").Text())
	assert.Equal(t, "Doe", doc.Find("title").Text())
}

func TestPersonCreatePage_ShowsErrorsAndValues(t *testing.T) {
	t.Parallel()

	doc := render(t, PersonCreatePage(&viewmodels.PersonCreatePageProps{
		PostTo: "/persons",
		Form:   &viewmodels.PersonFormVM{LastName: "Doe", Location: "Oslo"},
		Errors: map[string]string{"phone_number": "phone_number is a required field"},
	}))

	action, _ := doc.Find("form").Attr("action")
	assert.Equal(t, "/persons", action)
	value, _ := doc.Find(`input[name="last_name"]`).Attr("value")
	assert.Equal(t, "Doe", value)
	assert.Equal(t, "phone_number is a required field", doc.Find(`[data-error-for="phone_number"]`).Text())

	class, _ := doc.Find(`input[name="phone_number"]`).Attr("class")
	assert.Contains(t, class, "border-red-500")
	assert.NotContains(t, class, "border-gray-300")
	_, required := doc.Find(`input[name="location"]`).Attr("required")
	assert.False(t, required)
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	doc := render(t, ErrorPage(&viewmodels.ErrorPageProps{Title: "Upstream error", Message: "try later"}))
	assert.Equal(t, "try later", doc.Find(`[data-testid="error"]`).Text())
}
