package httpdto

// StartChatRequest is used for POST /v1/chats/start
type StartChatRequest struct {
	BookID string `json:"book_id" binding:"required"`
}

// PostMessageRequest is used for POST /v1/chats/:id/messages
type PostMessageRequest struct {
	Body       string `json:"body" binding:"required"`
	SenderName string `json:"sender_name,omitempty"`
}
