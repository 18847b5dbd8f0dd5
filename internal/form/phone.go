package form

import "strings"

const (
	countryCode      = "261"
	nationalDigits   = 9
	mobilePrefixByte = '3'
)

// FormatMadagascarPhone masks raw input as a Malagasy mobile number,
// "+261 XX XX XXX XX". Non-digits, the country code and leading zeros are
// dropped and the number is forced to start with 3. Partial input is grouped
// as far as it goes; input with no digits past the country code yields "".
func FormatMadagascarPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, countryCode) {
		digits = digits[len(countryCode):]
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return ""
	}
	if digits[0] != mobilePrefixByte {
		digits = string(mobilePrefixByte) + digits
	}
	if len(digits) > nationalDigits {
		digits = digits[:nationalDigits]
	}

	groups := make([]string, 0, 4)
	for _, size := range []int{2, 2, 3, 2} {
		if digits == "" {
			break
		}
		n := min(size, len(digits))
		groups = append(groups, digits[:n])
		digits = digits[n:]
	}
	return "+" + countryCode + " " + strings.Join(groups, " ")
}
