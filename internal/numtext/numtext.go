// Package numtext переводит денежные суммы в испанский текст для печати в квитанциях.
package numtext

import (
	"errors"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAmount задаёт наибольшую сумму, которую умеет записывать конвертер.
const MaxAmount = 1_000_000

// InvalidAmountMessage содержит фиксированный текст ошибки для сумм вне диапазона.
const InvalidAmountMessage = "Número inválido. Se esperaba un entero entre 0 y 1.000.000."

// ErrInvalidAmount возвращается для отрицательных, дробных и слишком больших сумм.
var ErrInvalidAmount = errors.New(InvalidAmountMessage)

var (
	units = [...]string{"", "un", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	teens = [...]string{
		"diez", "once", "doce", "trece", "catorce",
		"quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve",
	}
	tens     = [...]string{"", "", "veinte", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	hundreds = [...]string{
		"", "ciento", "doscientos", "trescientos", "cuatrocientos",
		"quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos",
	}
)

// ToWords записывает сумму словами: 0 → "cero", 1 → "Uno", 1101 → "Mil ciento uno".
func ToWords(n int64) (string, error) {
	if n < 0 || n > MaxAmount {
		return "", ErrInvalidAmount
	}

	switch n {
	case 0:
		return "cero", nil
	case MaxAmount:
		return "Un millón", nil
	}

	thousands := n / 1000
	rest := n % 1000

	var parts []string
	switch {
	case thousands == 1:
		parts = append(parts, "mil")
	case thousands > 1:
		parts = append(parts, group(thousands), "mil")
	}

	if rest > 0 {
		words := group(rest)
		// "un" перед существительным, "uno" в конце числа.
		if words == "un" || strings.HasSuffix(words, " un") {
			words += "o"
		}
		parts = append(parts, words)
	}

	return capitalize(strings.Join(parts, " ")), nil
}

// FloatToWords принимает сумму из JSON и отклоняет дробные значения.
func FloatToWords(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", ErrInvalidAmount
	}
	if f < 0 || f > MaxAmount {
		return "", ErrInvalidAmount
	}
	return ToWords(int64(f))
}

// group записывает число от 1 до 999.
func group(n int64) string {
	h := n / 100
	rest := n % 100

	var words []string
	if h > 0 {
		if h == 1 && rest == 0 {
			words = append(words, "cien")
		} else {
			words = append(words, hundreds[h])
		}
	}

	switch {
	case rest == 0:
	case rest < 10:
		words = append(words, units[rest])
	case rest < 20:
		words = append(words, teens[rest-10])
	default:
		words = append(words, tens[rest/10])
		if u := rest % 10; u > 0 {
			words = append(words, "y", units[u])
		}
	}

	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
