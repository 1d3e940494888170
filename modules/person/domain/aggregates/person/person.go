package person

// Person is a directory entry. The id is assigned by the storage engine on
// insert; values built with New carry id 0 until they are persisted.
type Person struct {
	id          int64
	lastName    string
	phoneNumber string
	location    string
}

func New(lastName, phoneNumber, location string) Person {
	return Person{
		lastName:    lastName,
		phoneNumber: phoneNumber,
		location:    location,
	}
}

func Hydrate(id int64, lastName, phoneNumber, location string) Person {
	return Person{
		id:          id,
		lastName:    lastName,
		phoneNumber: phoneNumber,
		location:    location,
	}
}

func (p Person) ID() int64           { return p.id }
func (p Person) LastName() string    { return p.lastName }
func (p Person) PhoneNumber() string { return p.phoneNumber }
func (p Person) Location() string    { return p.location }
func (p Person) IsPersisted() bool   { return p.id != 0 }
