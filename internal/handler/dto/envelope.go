// Package dto provides the JSON envelopes shared by every endpoint.
package dto

import "github.com/IndraW01/API-Contact-Management/internal/model"

// OK is the data value of a successful delete or logout.
const OK = "OK"

// DataResponse wraps a successful payload.
type DataResponse struct {
	Data any `json:"data"`
}

// PagedResponse is a page of search results.
type PagedResponse struct {
	Data   any          `json:"data"`
	Paging model.Paging `json:"paging"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// ToPagedResponse converts a contact page to its envelope.
func ToPagedResponse(page *model.ContactPage) PagedResponse {
	return PagedResponse{Data: page.Data, Paging: page.Paging}
}
