// Package expiry содержит всю календарную логику панели: нормализацию дат,
// вычисление оставшихся дней, классификацию по корзинам, автоматический
// переход статуса и арифметику продления.
//
// Все сравнения дат выполняются с точностью до календарного дня в одном
// фиксированном часовом поясе (America/Sao_Paulo), независимо от локального
// пояса процесса. Время суток в сравнениях не участвует.
package expiry

import (
	"strconv"
	"strings"
	"time"
	// таймзона должна разрешаться и без tzdata на хосте
	_ "time/tzdata"
)

// DateLayout формат сериализации календарной даты.
const DateLayout = "2006-01-02"

// zoneName фиксированный гражданский часовой пояс бизнеса.
const zoneName = "America/Sao_Paulo"

var location = mustLoadLocation()

func mustLoadLocation() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		panic("expiry: load location " + zoneName + ": " + err.Error())
	}
	return loc
}

// Location возвращает фиксированный часовой пояс, к которому привязаны
// все календарные вычисления.
func Location() *time.Location {
	return location
}

// Today возвращает текущий календарный день в фиксированном поясе,
// усечённый до полуночи. Значение вычисляется при каждом вызове:
// процесс живёт сутками и закешированное "сегодня" устаревает.
func Today() time.Time {
	now := time.Now().In(location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, location)
}

// Normalize разбирает строковую дату внешнего источника в полуночь
// фиксированного пояса. Принимает YYYY-MM-DD и ISO-строки с временем
// (часть после 'T' отбрасывается). Пустая строка и любой мусор дают ok=false.
//
// Разбор выполняется по целочисленным компонентам, а не через time.Parse
// ISO-строки целиком: парсинг с временной зоной сдвинул бы календарный день
// при несовпадении локального пояса процесса с гражданским поясом бизнеса.
func Normalize(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		raw = raw[:i]
	}
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, location)
	// time.Date нормализует переполнение (2024-02-31 -> 2024-03-02),
	// обратная проверка отбрасывает такие даты как невалидные
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// Format сериализует календарную дату обратно в YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(DateLayout)
}
