package models

// Response is the envelope used for error bodies across the API.
type Response struct {
	Success      int         `json:"success"`
	ErrorCode    string      `json:"error_code,omitempty"`
	ErrorDetails string      `json:"error_details,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// ErrorResponse builds a failed Response.
func ErrorResponse(code, details string) Response {
	return Response{Success: 0, ErrorCode: code, ErrorDetails: details}
}

// ListResponse wraps a collection with its count.
type ListResponse struct {
	Count int         `json:"count"`
	Items interface{} `json:"items"`
}
