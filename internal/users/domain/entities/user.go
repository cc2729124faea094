// Package entities defines the domain entities for the users service.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
)

// Имена полей записи в том виде, в каком их видит клиент.
const (
	FieldID            = "_id"
	FieldGivenName     = "nombre"
	FieldFamilyName    = "apellidos"
	FieldAge           = "edad"
	FieldNationalID    = "dni"
	FieldBirthDate     = "cumpleanos"
	FieldFavoriteColor = "colorFavorito"
	FieldGender        = "sexo"
)

// GenderOptions - допустимые значения пола, сравниваются без учета регистра.
var GenderOptions = []string{"hombre", "mujer", "otro", "No especificado"}

// User представляет запись профиля пользователя.
type User struct {
	ID            string    `json:"_id"`
	GivenName     string    `json:"nombre"`
	FamilyName    string    `json:"apellidos"`
	Age           string    `json:"edad"`
	NationalID    string    `json:"dni"`
	BirthDate     string    `json:"cumpleanos"`
	FavoriteColor string    `json:"colorFavorito"`
	Gender        string    `json:"sexo"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SameProfile сообщает, совпадают ли поля профиля двух записей без учета служебных отметок времени.
func (u *User) SameProfile(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.ID == other.ID &&
		u.GivenName == other.GivenName &&
		u.FamilyName == other.FamilyName &&
		u.Age == other.Age &&
		u.NationalID == other.NationalID &&
		u.BirthDate == other.BirthDate &&
		u.FavoriteColor == other.FavoriteColor &&
		u.Gender == other.Gender
}
