package models

// Admin учётная запись администратора панели. Панель однопользовательская,
// но таблица допускает несколько записей.
type Admin struct {
	UID          string `json:"uid"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// LoginRequest данные формы входа администратора.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
