package expiry

import (
	"time"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// Transition применяет автоматический переход статуса к абоненту
// и возвращает новое значение вместе с признаком изменения.
// Функция чистая, исходная структура не изменяется.
//
// Правила:
//   - статус test не трогается никогда, какой бы ни была дата;
//   - отсутствующая или нечитаемая дата означает отсутствие срока;
//   - просроченный (diff < 0) не-inactive абонент становится inactive;
//   - обратного автоматического перехода не существует.
func Transition(sub models.Subscriber, today time.Time) (models.Subscriber, bool) {
	if sub.Status == models.StatusTest {
		return sub, false
	}
	d, ok := Normalize(sub.ExpiryDate)
	if !ok {
		return sub, false
	}
	if DaysUntil(d, today) < 0 && sub.Status != models.StatusInactive {
		sub.Status = models.StatusInactive
		return sub, true
	}
	return sub, false
}
