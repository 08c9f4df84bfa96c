// Package models содержит модель пользователя справочника.
// Записи пользователей не принадлежат этому сервису: они читаются
// для определения email владельца и проверки получателя доступа.
package models

// User представляет зарегистрированного пользователя системы.
type User struct {
	GoogleID string `bson:"google_id" json:"google_id"` // Внешний идентификатор пользователя
	Email    string `bson:"email" json:"email"`         // Электронная почта
	Name     string `bson:"name" json:"name"`           // Отображаемое имя
}
