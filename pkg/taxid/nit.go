// Package taxid normaliza el NIT colombiano de empresas y proveedores.
package taxid

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidNIT NIT con caracteres no permitidos o dígito de verificación incorrecto.
var ErrInvalidNIT = errors.New("taxid: NIT inválido")

// pesos del módulo 11 de la DIAN sobre los 9 dígitos base, de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// VerificationDigit calcula el dígito de verificación de un NIT base de 9 dígitos.
func VerificationDigit(base string) (byte, error) {
	digits, err := extractDigits(base)
	if err != nil {
		return 0, err
	}
	if len(digits) != 9 {
		return 0, fmt.Errorf("%w: se esperaban 9 dígitos, hay %d", ErrInvalidNIT, len(digits))
	}
	return checkDigit(digits), nil
}

// Normalize devuelve el NIT en forma canónica "900123456-8".
// Con 9 dígitos completa el dígito de verificación; con 10 lo valida.
// Otras longitudes (cédulas, documentos extranjeros) se devuelven solo con sus dígitos.
func Normalize(nit string) (string, error) {
	digits, err := extractDigits(nit)
	if err != nil {
		return "", err
	}
	switch len(digits) {
	case 0:
		return "", fmt.Errorf("%w: vacío", ErrInvalidNIT)
	case 9:
		return string(digits) + "-" + string(checkDigit(digits)), nil
	case 10:
		expected := checkDigit(digits[:9])
		if digits[9] != expected {
			return "", fmt.Errorf("%w: dígito de verificación esperado %c, recibido %c", ErrInvalidNIT, expected, digits[9])
		}
		return string(digits[:9]) + "-" + string(expected), nil
	}
	return string(digits), nil
}

func checkDigit(base []byte) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder)
	}
	return byte('0' + (11 - remainder))
}

// extractDigits acepta puntos, guiones y espacios como separadores.
func extractDigits(s string) ([]byte, error) {
	var out []byte
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, byte(r))
		case r == '.' || r == '-' || unicode.IsSpace(r):
		default:
			return nil, fmt.Errorf("%w: carácter %q", ErrInvalidNIT, r)
		}
	}
	return out, nil
}
