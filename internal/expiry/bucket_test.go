package expiry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	today := mustDate(t, "2024-03-10")

	tests := []struct {
		name   string
		expiry string
		want   int
	}{
		{name: "окончание сегодня", expiry: "2024-03-10", want: 0},
		{name: "окончание завтра", expiry: "2024-03-11", want: 1},
		{name: "окончание вчера", expiry: "2024-03-09", want: -1},
		{name: "через пять дней", expiry: "2024-03-15", want: 5},
		{name: "через месяц", expiry: "2024-04-10", want: 31},
		{name: "сто дней назад", expiry: "2023-12-01", want: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(mustDate(t, tt.expiry), today))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		diff int
		want Bucket
	}{
		{diff: -100, want: BucketOverdue},
		{diff: -1, want: BucketOverdue},
		{diff: 0, want: BucketToday},
		{diff: 1, want: BucketTwoDays},
		{diff: 2, want: BucketTwoDays},
		{diff: 3, want: BucketFiveDays},
		{diff: 4, want: BucketFiveDays},
		{diff: 5, want: BucketFiveDays},
		{diff: 6, want: BucketNone},
		{diff: 30, want: BucketNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.diff), "diff=%d", tt.diff)
	}
}

// Корзины образуют разбиение: каждому значению diff соответствует ровно одна.
func TestClassify_Partition(t *testing.T) {
	for diff := -10; diff <= 10; diff++ {
		matches := 0
		for _, b := range []Bucket{BucketOverdue, BucketToday, BucketTwoDays, BucketFiveDays, BucketNone} {
			if Classify(diff) == b {
				matches++
			}
		}
		require.Equal(t, 1, matches, "diff=%d", diff)
	}
}

func TestClassifyDate(t *testing.T) {
	today := mustDate(t, "2024-03-10")

	assert.Equal(t, BucketToday, ClassifyDate("2024-03-10", today))
	assert.Equal(t, BucketTwoDays, ClassifyDate("2024-03-12T10:00:00Z", today))
	assert.Equal(t, BucketNone, ClassifyDate("", today))
	assert.Equal(t, BucketNone, ClassifyDate("garbage", today))
}

func TestMinDays(t *testing.T) {
	today := mustDate(t, "2024-03-10")

	tests := []struct {
		name     string
		dates    []string
		wantDiff int
		wantOK   bool
	}{
		{name: "минимум из нескольких", dates: []string{"2024-03-20", "2024-03-12", "2024-04-01"}, wantDiff: 2, wantOK: true},
		{name: "просроченная побеждает", dates: []string{"2024-03-20", "2024-03-01"}, wantDiff: -9, wantOK: true},
		{name: "пустые пропускаются", dates: []string{"", "2024-03-10", ""}, wantDiff: 0, wantOK: true},
		{name: "ни одной даты", dates: []string{"", "junk"}, wantOK: false},
		{name: "пустой список", dates: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, ok := MinDays(tt.dates, today)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantDiff, diff)
			}
		})
	}
}
