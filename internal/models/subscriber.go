// Package models содержит доменные структуры панели: абонентов (клиентов и
// реселлеров), планы, шаблоны сообщений, PIX-конфигурации и квитанции,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Status статус абонента в панели.
type Status string

// Возможные статусы абонента. Автоматический переход существует только один:
// active -> inactive после истечения срока. Статус test полностью исключён
// из автоматической обработки.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
	StatusTest     Status = "test"
)

// Collection имя коллекции абонентов. Клиенты и реселлеры хранятся в двух
// независимых коллекциях, но обрабатываются одинаково.
type Collection string

const (
	// CollectionClients коллекция клиентов
	CollectionClients Collection = "clients"
	// CollectionResellers коллекция реселлеров
	CollectionResellers Collection = "resellers"
)

// Credential набор учётных данных одного устройства абонента.
// Даты хранятся строками в формате YYYY-MM-DD, AppExpiryDate может быть пустой.
type Credential struct {
	Login         string `json:"login"`
	Password      string `json:"password"`
	AppUsed       string `json:"app_used"`
	DeviceUsed    string `json:"device_used"`
	AppEntryDate  string `json:"app_entry_date"`
	AppExpiryDate string `json:"app_expiry_date"`
}

// Subscriber основная модель абонента (клиента или реселлера).
// ExpiryDate хранится строкой как пришла из внешнего источника:
// YYYY-MM-DD либо ISO с временем; пустая строка означает отсутствие
// срока действия. ExpiryTime используется только для отображения
// и не участвует в сравнениях дат.
type Subscriber struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Plan        string       `json:"plan"`
	Screens     int          `json:"screens"`
	Servers     int          `json:"servers"`
	Credits     int          `json:"credits"`
	Status      Status       `json:"status"`
	ExpiryDate  string       `json:"expiry_date"`
	ExpiryTime  string       `json:"expiry_time"`
	Credentials []Credential `json:"credentials"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DummySubscriber используется для приёма данных абонента из JSON-запроса,
// прежде чем конвертировать их в Subscriber.
type DummySubscriber struct {
	Name        string       `json:"name" validate:"required"`
	Phone       string       `json:"phone"`
	Plan        string       `json:"plan"`
	Screens     int          `json:"screens"`
	Servers     int          `json:"servers"`
	Credits     int          `json:"credits"`
	Status      string       `json:"status" validate:"required,oneof=active inactive pending test"`
	ExpiryDate  string       `json:"expiry_date"`
	ExpiryTime  string       `json:"expiry_time"`
	Credentials []Credential `json:"credentials"`
	Notes       string       `json:"notes"`
}

// ExpiryNotice сообщение о скором окончании срока абонента,
// публикуемое планировщиком в очередь уведомлений.
type ExpiryNotice struct {
	Collection Collection `json:"collection"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Plan       string     `json:"plan"`
	ExpiryDate string     `json:"expiry_date"`
	DaysLeft   int        `json:"days_left"`
}
