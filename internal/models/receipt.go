package models

import "time"

// Receipt квитанция о продлении, создаваемая при каждом успешном продлении.
// PixKey фиксирует реквизиты оплаты на момент продления, даты хранятся
// строками YYYY-MM-DD.
type Receipt struct {
	ID            string     `json:"id"`
	Collection    Collection `json:"collection"`
	SubscriberID  string     `json:"subscriber_id"`
	Subscriber    string     `json:"subscriber"`
	Plan          string     `json:"plan"`
	Amount        float64    `json:"amount"`
	OldExpiryDate string     `json:"old_expiry_date"`
	NewExpiryDate string     `json:"new_expiry_date"`
	PixKey        string     `json:"pix_key"`
	Body          string     `json:"body"`
	CreatedAt     time.Time  `json:"created_at"`
}
