package dto

// ChatRequest carries one user message to the supportive-chat persona.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse returns the reply and which generator produced it ("ai" or
// "fallback").
type ChatResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}
