// Package validation проверяет запись пользователя перед сохранением.
//
// Validate не выполняет ввода-вывода и не хранит состояния: один и тот же вход
// всегда дает один и тот же упорядоченный список проблем.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"userprofiles/internal/users/domain/entities"
)

// Rule - вид нарушенного ограничения.
type Rule string

// Правила проверки.
const (
	RuleRequired  Rule = "required"
	RuleMinLength Rule = "min_length"
	RuleCharset   Rule = "charset"
	RuleRange     Rule = "range"
	RuleLength    Rule = "length"
	RuleFormat    Rule = "format"
	RuleOneOf     Rule = "one_of"
)

// Ограничения полей.
const (
	MinTextLength    = 3
	MinAge           = 0
	MaxAge           = 125
	NationalIDLength = 9

	// BirthDateLayout и BirthDateCompactLayout - строгий формат даты рождения:
	// ISO-8601 с миллисекундами и смещением вида Z, +02:00 или +0200.
	BirthDateLayout        = "2006-01-02T15:04:05.000Z07:00"
	BirthDateCompactLayout = "2006-01-02T15:04:05.000Z0700"
	// BirthDatePattern - тот же формат в записи, понятной клиенту.
	BirthDatePattern = "YYYY-MM-DDTHH:mm:ss.SSSZ"
)

const messagePrefix = "⚠ "

var onlyLettersRgx = regexp.MustCompile(`^[a-zA-Z\s]*$`)

// Problem описывает одно нарушенное ограничение.
type Problem struct {
	Field  string `json:"field"`
	Rule   Rule   `json:"rule"`
	Detail string `json:"detail,omitempty"`
}

// Message возвращает текст проблемы для клиента.
func (p Problem) Message() string {
	var text string
	switch p.Rule {
	case RuleRequired:
		if p.Field == entities.FieldGender {
			text = "Your gender must have a selected option"
		} else {
			text = fmt.Sprintf("The field %s must be present", p.Field)
		}
	case RuleMinLength:
		text = fmt.Sprintf("The field %s must have more than %d characters", p.Field, MinTextLength)
	case RuleCharset:
		text = fmt.Sprintf("The field %s must not contain numbers", p.Field)
	case RuleRange:
		text = fmt.Sprintf("Your age must be greater than %d and less than %d", MinAge, MaxAge)
	case RuleLength:
		text = fmt.Sprintf("Your DNI must have %d char", NationalIDLength)
	case RuleFormat:
		text = fmt.Sprintf("The field %s must match the format %s", p.Field, BirthDatePattern)
	case RuleOneOf:
		text = "Your gender must be: " + strings.Join(entities.GenderOptions, ", ")
	default:
		text = fmt.Sprintf("The field %s is invalid", p.Field)
	}
	return messagePrefix + text
}

// Problems - упорядоченный список проблем. Пустой список означает, что запись корректна.
type Problems []Problem

// Error реализует error, чтобы список можно было вернуть из сценария и распознать через errors.As.
func (ps Problems) Error() string {
	return "invalid user: " + strings.Join(ps.Messages(), "; ")
}

// Messages возвращает тексты всех проблем в исходном порядке.
func (ps Problems) Messages() []string {
	messages := make([]string, 0, len(ps))
	for _, p := range ps {
		messages = append(messages, p.Message())
	}
	return messages
}

// Has сообщает, есть ли в списке проблема для поля и правила.
func (ps Problems) Has(field string, rule Rule) bool {
	for _, p := range ps {
		if p.Field == field && p.Rule == rule {
			return true
		}
	}
	return false
}

// Validate проверяет все поля записи независимо друг от друга.
// Порядок проверок фиксирован: nombre, apellidos, edad, dni, cumpleanos, colorFavorito, sexo.
func Validate(u *entities.User) Problems {
	var ps Problems

	ps = checkText(ps, entities.FieldGivenName, u.GivenName)
	ps = checkText(ps, entities.FieldFamilyName, u.FamilyName)
	ps = checkAge(ps, u.Age)
	ps = checkNationalID(ps, u.NationalID)
	ps = checkBirthDate(ps, u.BirthDate)
	ps = checkText(ps, entities.FieldFavoriteColor, u.FavoriteColor)
	ps = checkGender(ps, u.Gender)

	return ps
}

func checkText(ps Problems, field, value string) Problems {
	if value == "" {
		return append(ps, Problem{Field: field, Rule: RuleRequired})
	}
	if utf8.RuneCountInString(value) <= MinTextLength {
		ps = append(ps, Problem{Field: field, Rule: RuleMinLength, Detail: strconv.Itoa(MinTextLength)})
	}
	if !onlyLettersRgx.MatchString(value) {
		ps = append(ps, Problem{Field: field, Rule: RuleCharset, Detail: "letters and whitespace"})
	}
	return ps
}

// checkAge проверяет диапазон и для пустого значения: отсутствие возраста дает обе проблемы.
func checkAge(ps Problems, value string) Problems {
	if value == "" {
		ps = append(ps, Problem{Field: entities.FieldAge, Rule: RuleRequired})
	}
	if !ageInRange(value) {
		ps = append(ps, Problem{
			Field:  entities.FieldAge,
			Rule:   RuleRange,
			Detail: fmt.Sprintf("%d-%d", MinAge, MaxAge),
		})
	}
	return ps
}

func ageInRange(value string) bool {
	age, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(age) {
		return false
	}
	return age >= MinAge && age <= MaxAge
}

// checkNationalID проверяет длину и для пустого значения.
func checkNationalID(ps Problems, value string) Problems {
	if value == "" {
		ps = append(ps, Problem{Field: entities.FieldNationalID, Rule: RuleRequired})
	}
	if utf8.RuneCountInString(value) != NationalIDLength {
		ps = append(ps, Problem{
			Field:  entities.FieldNationalID,
			Rule:   RuleLength,
			Detail: strconv.Itoa(NationalIDLength),
		})
	}
	return ps
}

func checkBirthDate(ps Problems, value string) Problems {
	if value == "" {
		return append(ps, Problem{Field: entities.FieldBirthDate, Rule: RuleRequired})
	}
	for _, layout := range []string{BirthDateLayout, BirthDateCompactLayout} {
		if _, err := time.Parse(layout, value); err == nil {
			return ps
		}
	}
	return append(ps, Problem{Field: entities.FieldBirthDate, Rule: RuleFormat, Detail: BirthDatePattern})
}

func checkGender(ps Problems, value string) Problems {
	if value == "" {
		return append(ps, Problem{Field: entities.FieldGender, Rule: RuleRequired})
	}
	for _, option := range entities.GenderOptions {
		if strings.EqualFold(option, value) {
			return ps
		}
	}
	return append(ps, Problem{
		Field:  entities.FieldGender,
		Rule:   RuleOneOf,
		Detail: strings.Join(entities.GenderOptions, ", "),
	})
}
