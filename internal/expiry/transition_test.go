package expiry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

func TestTransition(t *testing.T) {
	today := mustDate(t, "2024-03-10")

	tests := []struct {
		name        string
		sub         models.Subscriber
		wantStatus  models.Status
		wantChanged bool
	}{
		{
			name:        "просроченный active становится inactive",
			sub:         models.Subscriber{ID: "1", Status: models.StatusActive, ExpiryDate: "2024-03-09"},
			wantStatus:  models.StatusInactive,
			wantChanged: true,
		},
		{
			name:        "просроченный pending тоже становится inactive",
			sub:         models.Subscriber{ID: "2", Status: models.StatusPending, ExpiryDate: "2024-01-01"},
			wantStatus:  models.StatusInactive,
			wantChanged: true,
		},
		{
			name:        "окончание сегодня не считается просрочкой",
			sub:         models.Subscriber{ID: "3", Status: models.StatusActive, ExpiryDate: "2024-03-10"},
			wantStatus:  models.StatusActive,
			wantChanged: false,
		},
		{
			name:        "действующий active не трогается",
			sub:         models.Subscriber{ID: "4", Status: models.StatusActive, ExpiryDate: "2024-04-01"},
			wantStatus:  models.StatusActive,
			wantChanged: false,
		},
		{
			name:        "test не трогается даже с давней датой",
			sub:         models.Subscriber{ID: "5", Status: models.StatusTest, ExpiryDate: "2020-01-01"},
			wantStatus:  models.StatusTest,
			wantChanged: false,
		},
		{
			name:        "без даты окончания не трогается",
			sub:         models.Subscriber{ID: "6", Status: models.StatusActive, ExpiryDate: ""},
			wantStatus:  models.StatusActive,
			wantChanged: false,
		},
		{
			name:        "нечитаемая дата не трогается",
			sub:         models.Subscriber{ID: "7", Status: models.StatusActive, ExpiryDate: "oops"},
			wantStatus:  models.StatusActive,
			wantChanged: false,
		},
		{
			name:        "уже inactive не перезаписывается",
			sub:         models.Subscriber{ID: "8", Status: models.StatusInactive, ExpiryDate: "2024-01-01"},
			wantStatus:  models.StatusInactive,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Transition(tt.sub, today)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantChanged, changed)
			// остальные поля не изменяются
			assert.Equal(t, tt.sub.ID, got.ID)
			assert.Equal(t, tt.sub.ExpiryDate, got.ExpiryDate)
		})
	}
}

// Повторное применение перехода к уже обработанному абоненту ничего не меняет.
func TestTransition_Idempotent(t *testing.T) {
	today := mustDate(t, "2024-03-10")

	subs := []models.Subscriber{
		{ID: "1", Status: models.StatusActive, ExpiryDate: "2024-03-01"},
		{ID: "2", Status: models.StatusTest, ExpiryDate: "2020-01-01"},
		{ID: "3", Status: models.StatusActive, ExpiryDate: "2024-03-20"},
	}
	for _, sub := range subs {
		once, _ := Transition(sub, today)
		twice, changedAgain := Transition(once, today)
		assert.Equal(t, once, twice)
		assert.False(t, changedAgain)
	}
}

// Переход не мутирует исходное значение.
func TestTransition_Pure(t *testing.T) {
	today := mustDate(t, "2024-03-10")
	sub := models.Subscriber{ID: "1", Status: models.StatusActive, ExpiryDate: "2024-03-01"}

	_, changed := Transition(sub, today)
	assert.True(t, changed)
	assert.Equal(t, models.StatusActive, sub.Status)
}
