package response

// CreateListingResponse returns the id of a freshly created record.
type CreateListingResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
