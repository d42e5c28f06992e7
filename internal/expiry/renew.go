package expiry

import (
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// defaultDurationDays длительность плана, подставляемая при нечитаемом
// значении Duration.
const defaultDurationDays = 30

// MonthsFromDuration переводит длительность плана из дней в целые месяцы
// по правилу floor(days/30). Нечитаемое значение считается 30 днями.
//
// План на 45 дней даёт ровно 1 месяц: остаток отбрасывается намеренно,
// планы в панели кратны 30 дням.
func MonthsFromDuration(raw string) int {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days <= 0 {
		days = defaultDurationDays
	}
	return days / 30
}

// Renew возвращает копию абонента с продлённым сроком по плану.
// База продления — максимум из текущей даты окончания и today: просроченный
// абонент продлевается от сегодняшнего дня, действующий — от своей даты.
// Абонент без даты окончания продлевается от today. Статус безусловно
// становится active, в том числе из inactive, pending и test.
//
// Прибавление месяцев календарное (time.AddDate), день месяца может
// сместиться при попадании в более короткий месяц.
func Renew(sub models.Subscriber, plan models.Plan, today time.Time) models.Subscriber {
	base := today
	if current, ok := Normalize(sub.ExpiryDate); ok && current.After(today) {
		base = current
	}
	newExpiry := base.AddDate(0, MonthsFromDuration(plan.Duration), 0)

	sub.ExpiryDate = Format(newExpiry)
	sub.Status = models.StatusActive
	return sub
}
