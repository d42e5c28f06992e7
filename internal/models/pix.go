package models

// PixConfig конфигурация PIX-оплаты. Активной может быть только одна
// запись, её реквизиты попадают в квитанции о продлении.
type PixConfig struct {
	ID      string `json:"id"`
	KeyType string `json:"key_type"`
	Key     string `json:"key"`
	Holder  string `json:"holder"`
	Active  bool   `json:"active"`
}

// DummyPixConfig используется для приёма PIX-конфигурации из JSON-запроса.
type DummyPixConfig struct {
	KeyType string `json:"key_type" validate:"required,oneof=cpf cnpj email phone random"`
	Key     string `json:"key" validate:"required"`
	Holder  string `json:"holder" validate:"required"`
	Active  bool   `json:"active"`
}
