package domain

import "regexp"

var nonDigitRe = regexp.MustCompile(`\D`)

// ValidCPF reports whether raw is a structurally valid CPF number: 11 digits
// (punctuation tolerated), not all the same digit, both verifier digits
// correct.
func ValidCPF(raw string) bool {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return false
	}
	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}
	return cpfCheckDigit(digits, 9) == int(digits[9]-'0') &&
		cpfCheckDigit(digits, 10) == int(digits[10]-'0')
}

// cpfCheckDigit computes the verifier digit over the first n digits, with
// weights n+1 down to 2.
func cpfCheckDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
