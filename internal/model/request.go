package model

// Request payloads. Tags are go-playground/validator rules; field names in
// validation messages come from the json tags.

// RegisterUserRequest is the body of POST /api/users.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=100"`
}

// LoginUserRequest is the body of POST /api/users/login.
type LoginUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=100"`
}

// UpdateUserRequest is the body of PATCH /api/users/current.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=100"`
	Password *string `json:"password" validate:"omitnil,min=1,max=100"`
}

// ContactRequest is the body of contact create and update.
type ContactRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email" validate:"omitnil,min=1,max=200,email"`
	Phone     *string `json:"phone" validate:"omitnil,min=1,max=20"`
}

// SearchContactRequest holds the query parameters of GET /api/contacts
// after defaults are applied.
type SearchContactRequest struct {
	Page  int    `json:"page" validate:"min=1"`
	Size  int    `json:"size" validate:"min=1,max=100"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AddressRequest is the body of address create and update.
type AddressRequest struct {
	Street     *string `json:"street" validate:"omitnil,min=1,max=255"`
	City       *string `json:"city" validate:"omitnil,min=1,max=100"`
	Province   *string `json:"province" validate:"omitnil,min=1,max=100"`
	Country    string  `json:"country" validate:"required,max=100"`
	PostalCode string  `json:"postalCode" validate:"required,max=10"`
}
