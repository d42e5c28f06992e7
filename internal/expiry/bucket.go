package expiry

import (
	"math"
	"time"
)

// Bucket именованная корзина срочности по количеству оставшихся дней.
type Bucket string

// Корзины не пересекаются: ровно 2 дня до окончания попадает в BucketTwoDays,
// а не в BucketFiveDays; нулевой остаток — только в BucketToday.
const (
	BucketToday    Bucket = "expiring_today"
	BucketTwoDays  Bucket = "expiring_2"
	BucketFiveDays Bucket = "expiring_5"
	BucketOverdue  Bucket = "overdue"
	BucketNone     Bucket = "none"
)

// DaysUntil возвращает целое число дней от today до expiry, округляя вверх.
// Обе даты должны быть нормализованы до полуночи одного пояса; округление
// вверх гасит неполные сутки от исторических переводов часов, так что
// окончание сегодня даёт 0, завтра — 1.
func DaysUntil(expiry, today time.Time) int {
	return int(math.Ceil(expiry.Sub(today).Hours() / 24))
}

// Classify относит разницу в днях к корзине срочности.
func Classify(diffDays int) Bucket {
	switch {
	case diffDays < 0:
		return BucketOverdue
	case diffDays == 0:
		return BucketToday
	case diffDays <= 2:
		return BucketTwoDays
	case diffDays <= 5:
		return BucketFiveDays
	default:
		return BucketNone
	}
}

// ClassifyDate нормализует строковую дату и классифицирует её относительно
// today. Отсутствующая или нечитаемая дата означает отсутствие срока
// и попадает в BucketNone.
func ClassifyDate(raw string, today time.Time) Bucket {
	d, ok := Normalize(raw)
	if !ok {
		return BucketNone
	}
	return Classify(DaysUntil(d, today))
}

// MinDays возвращает минимальную разницу в днях по списку строковых дат,
// пропуская пустые и нечитаемые. ok=false, если ни одной даты не нашлось.
// Используется для оси "окончание приложения": у абонента несколько наборов
// учётных данных, каждый со своей датой, эффективная корзина — по ближайшей.
func MinDays(dates []string, today time.Time) (int, bool) {
	minDiff, found := 0, false
	for _, raw := range dates {
		d, ok := Normalize(raw)
		if !ok {
			continue
		}
		diff := DaysUntil(d, today)
		if !found || diff < minDiff {
			minDiff = diff
		}
		found = true
	}
	return minDiff, found
}
