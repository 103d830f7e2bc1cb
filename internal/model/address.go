package model

import "time"

// Address belongs to exactly one contact.
type Address struct {
	ID         int64
	ContactID  int64
	Street     *string
	City       *string
	Province   *string
	Country    string
	PostalCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AddressResponse is the public projection of an address.
type AddressResponse struct {
	ID         int64   `json:"id"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	Country    string  `json:"country"`
	PostalCode string  `json:"postalCode"`
}

// ToResponse converts an Address to AddressResponse.
func (a *Address) ToResponse() AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

// AddressPatch is an address update. Country and PostalCode are always
// replaced; the optional columns change only when set.
type AddressPatch struct {
	Street     Field[string]
	City       Field[string]
	Province   Field[string]
	Country    string
	PostalCode string
}
