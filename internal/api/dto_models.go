package api

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is used for operations that return no resource.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse wraps a cursor-paginated list. NextStartAfter is empty on the
// last page.
type PageResponse struct {
	Items          interface{} `json:"items"`
	NextStartAfter string      `json:"nextStartAfter,omitempty"`
}
