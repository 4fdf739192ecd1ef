package validate

import (
	"regexp"

	"github.com/google/uuid"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,14}$`)
	cpfRe   = regexp.MustCompile(`^[0-9]{11}$`)
)

func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsCPF validates the eleven-digit document with its two mod-11 check digits.
func IsCPF(s string) bool {
	if !cpfRe.MatchString(s) {
		return false
	}
	// All-equal digits pass the checksum but are not valid documents.
	allEqual := true
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}
	return checkDigit(s, 9) == int(s[9]-'0') && checkDigit(s, 10) == int(s[10]-'0')
}

func checkDigit(s string, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(s[i]-'0') * (length + 1 - i)
	}
	rest := sum * 10 % 11
	if rest == 10 {
		return 0
	}
	return rest
}

func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
