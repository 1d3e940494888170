package dtos

// Person is the wire shape shared by the person service and its clients.
type Person struct {
	ID          int64  `json:"id"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location"`
}
