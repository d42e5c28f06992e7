package whatsapp

// SendMessageRequest запрос на отправку сообщения через шлюз.
type SendMessageRequest struct {
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

// SendMessageResponse ответ шлюза.
type SendMessageResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}
