package viewmodels

type Person struct {
	ID          string
	LastName    string
	PhoneNumber string
	Location    string
}

type PersonsPageProps struct {
	Title   string
	Persons []*Person
	Notice  string
	NewURL  string
}

type PersonPageProps struct {
	Person  *Person
	Notice  string
	BackURL string
}

type PersonFormVM struct {
	LastName    string
	PhoneNumber string
	Location    string
}

type PersonCreatePageProps struct {
	Form   *PersonFormVM
	Errors map[string]string
	PostTo string
}

type ErrorPageProps struct {
	Title   string
	Message string
	BackURL string
}
