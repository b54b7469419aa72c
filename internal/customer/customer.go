package customer

// Customer is the record the sign-up form describes. The form holds the live
// state; the record is created with the component and never mutated by it.
type Customer struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	SendCatalog bool      `json:"sendCatalog"`
	Addresses   []Address `json:"addresses,omitempty"`
}

// Address is a postal address attached to a customer.
type Address struct {
	AddressType string `json:"addressType"`
	Street1     string `json:"street1"`
	Street2     string `json:"street2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
}

// New returns a zero customer with catalog mailing enabled, matching the
// form defaults.
func New() Customer {
	return Customer{SendCatalog: true}
}
