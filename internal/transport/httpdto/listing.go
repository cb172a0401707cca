package httpdto

// CreateBookRequest is used for POST /v1/books
type CreateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author,omitempty"`
	Price  int64  `json:"price,omitempty"`
}

// UpdateBookRequest is used for PUT /v1/books/:id
type UpdateBookRequest struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Price  int64  `json:"price,omitempty"`
	Status string `json:"status,omitempty"`
}
