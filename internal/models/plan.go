package models

// Plan тарифный план подписки. Duration хранится строкой, как вводится
// в панели: количество дней, при невозможности разбора считается 30.
// Поиск плана выполняется по имени, стабильного внешнего ключа нет.
type Plan struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Duration string  `json:"duration"`
	Price    float64 `json:"price"`
}

// DummyPlan используется для приёма данных плана из JSON-запроса.
type DummyPlan struct {
	Name     string  `json:"name" validate:"required"`
	Duration string  `json:"duration" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
}
