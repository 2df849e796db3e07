package handler

// errorResponse mirrors the envelope rendered by the central error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}
