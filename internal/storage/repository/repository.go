// Package repository содержит методы доступа к данным панели поверх
// подключения из пакета storage: абоненты (клиенты и реселлеры), планы,
// шаблоны сообщений, PIX-конфигурации, квитанции и администраторы.
package repository

import (
	"database/sql"
	"errors"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// ErrNotFound запись не найдена в хранилище.
var ErrNotFound = errors.New("not found")

// Repository реализует доступ к данным панели.
type Repository struct {
	DB *sql.DB
}

// New создаёт репозиторий поверх открытого соединения.
func New(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// tableFor возвращает имя таблицы для коллекции абонентов.
// Имя подставляется в SQL напрямую, поэтому разрешены только известные коллекции.
func tableFor(c models.Collection) (string, error) {
	switch c {
	case models.CollectionClients:
		return "clients", nil
	case models.CollectionResellers:
		return "resellers", nil
	default:
		return "", errors.New("unknown collection: " + string(c))
	}
}
