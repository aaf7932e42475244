// Package phone normalizes Brazilian phone numbers and builds WhatsApp
// deep links.
//
// Numbers are typed with a fixed "+55" mask. Storage keeps digits only
// (area code + number, without the country code); display uses the
// progressive mask produced by Format.
package phone

import (
	"net/url"
	"strings"
)

// CountryCode is the mask prefix. The portal only serves Brazilian numbers.
const CountryCode = "55"

// maxDigits is DDD (2) + subscriber number (9).
const maxDigits = 11

// Digits strips everything but digits. A leading "+55" that came from the
// mask is dropped so re-formatting a formatted value is stable. The result
// is capped at 11 digits.
func Digits(s string) string {
	s = strings.TrimSpace(s)
	masked := strings.HasPrefix(s, "+"+CountryCode)

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if masked {
		d = strings.TrimPrefix(d, CountryCode)
	}
	if len(d) > maxDigits {
		d = d[:maxDigits]
	}
	return d
}

// Canonical normalizes a number that did not come through the mask, such
// as a spreadsheet cell. A national number has at most 11 digits, so a
// 12 or 13 digit value starting with 55 carries the country code, which is
// dropped. ok is false when more than 11 digits remain.
func Canonical(s string) (digits string, ok bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if (len(d) == 12 || len(d) == 13) && strings.HasPrefix(d, CountryCode) {
		d = d[len(CountryCode):]
	}
	if len(d) > maxDigits {
		return "", false
	}
	return d, true
}

// Format applies the progressive mask as a user types:
//
//	""            -> ""
//	"11"          -> "+55 (11"
//	"1198765"     -> "+55 (11) 98765"
//	"11987654321" -> "+55 (11) 98765-4321"
//
// Longer input is truncated to 11 digits first.
func Format(s string) string {
	d := Digits(s)
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "+" + CountryCode + " (" + d
	case len(d) <= 7:
		return "+" + CountryCode + " (" + d[:2] + ") " + d[2:]
	default:
		return "+" + CountryCode + " (" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// HasDigits reports whether s contains at least a full area code plus
// an 8-digit number.
func HasDigits(s string) bool {
	return len(Digits(s)) >= 10
}

// WhatsAppLink builds https://wa.me/<digits>?text=<message>. The country
// code is prepended to stored numbers. An empty message omits the query.
// ok is false when the number has no usable digits.
func WhatsAppLink(number, message string) (link string, ok bool) {
	d := Digits(number)
	if len(d) < 10 {
		return "", false
	}
	link = "https://wa.me/" + CountryCode + d
	if message != "" {
		// wa.me expects %20 for spaces, as encodeURIComponent produces.
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link, true
}
