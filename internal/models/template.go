package models

// MessageTemplate шаблон WhatsApp-сообщения. Body содержит плейсхолдеры
// вида {nome}, {plano}, {vencimento}, {dias}, подставляемые при отправке.
type MessageTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// DummyMessageTemplate используется для приёма шаблона из JSON-запроса.
type DummyMessageTemplate struct {
	Name string `json:"name" validate:"required"`
	Body string `json:"body" validate:"required"`
}
