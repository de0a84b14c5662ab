// Package bank normalizes free-form bank names to the canonical codes used
// by the wallet's payment flows. Matching is a pure table lookup with no
// state or I/O, so results are fully deterministic.
package bank

import "strings"

// Code is a canonical bank identifier.
type Code string

// Canonical bank codes accepted by downstream payment integrations.
const (
	KBANK      Code = "KBANK"
	BBL        Code = "BBL"
	SCB        Code = "SCB"
	KTB        Code = "KTB"
	TTB        Code = "TTB"
	GSB        Code = "GSB"
	KKP        Code = "KKP"
	BAY        Code = "BAY"
	BAAC       Code = "BAAC"
	TrueWallet Code = "TRUEWALLET"
)

var canonical = map[Code]struct{}{
	KBANK: {}, BBL: {}, SCB: {}, KTB: {}, TTB: {},
	GSB: {}, KKP: {}, BAY: {}, BAAC: {}, TrueWallet: {},
}

// aliases maps normalized spellings (English, transliterated, and Thai
// script) to canonical codes.
var aliases = map[string]Code{
	"kbank":        KBANK,
	"kasikorn":     KBANK,
	"kasikornbank": KBANK,
	"กสิกรไทย":     KBANK,
	"กสิกร":        KBANK,

	"bbl":         BBL,
	"bangkok":     BBL,
	"bangkokbank": BBL,
	"กรุงเทพ":     BBL,

	"scb":            SCB,
	"scbb":           SCB,
	"siam":           SCB,
	"siamcommercial": SCB,
	"ไทยพาณิชย์":     SCB,

	"ktb":       KTB,
	"krungthai": KTB,
	"กรุงไทย":   KTB,

	"ttb":           TTB,
	"tmb":           TTB,
	"tmbpayment":    TTB,
	"tmbthanachart": TTB,
	"ทหารไทยธนชาต":  TTB,

	"gsb":                GSB,
	"governmentsavings":  GSB,
	"ออมสิน":             GSB,

	"kkp":              KKP,
	"kiatnakin":        KKP,
	"kiatnakinphatra":  KKP,
	"เกียรตินาคินภัทร": KKP,

	"bay":          BAY,
	"krungsri":     BAY,
	"ayudhya":      BAY,
	"กรุงศรีอยุธยา": BAY,
	"กรุงศรี":       BAY,

	"baac":             BAAC,
	"agriculturalbank": BAAC,
	"ธกส":              BAAC,
	"เพื่อการเกษตร":    BAAC,

	"truewallet":  TrueWallet,
	"truemoney":   TrueWallet,
	"tmn":         TrueWallet,
	"ทรูวอลเล็ท":  TrueWallet,
}

// displayNames holds the customer-facing bank names.
var displayNames = map[Code]string{
	KBANK:      "ธนาคารกสิกรไทย",
	BBL:        "ธนาคารกรุงเทพ",
	SCB:        "ธนาคารไทยพาณิชย์",
	KTB:        "ธนาคารกรุงไทย",
	TTB:        "ธนาคารทหารไทยธนชาต",
	GSB:        "ธนาคารออมสิน",
	KKP:        "ธนาคารเกียรตินาคินภัทร",
	BAY:        "ธนาคารกรุงศรีอยุธยา",
	BAAC:       "ธนาคารเพื่อการเกษตร (ธกส.)",
	TrueWallet: "TrueMoney Wallet",
}

// Normalize resolves a raw bank code or name to its canonical code.
// Input is lower-cased, trimmed, and stripped of whitespace, hyphens, and
// underscores before lookup; canonical codes are checked first, then the
// alias table. The second return value reports whether the input was
// recognized.
func Normalize(value string) (Code, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, normalized)

	if normalized == "" {
		return "", false
	}

	if code := Code(strings.ToUpper(normalized)); isCanonical(code) {
		return code, true
	}

	code, ok := aliases[normalized]
	return code, ok
}

// Name returns the display name for a canonical code, or the code itself
// when no display name is registered.
func Name(code Code) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return string(code)
}

func isCanonical(code Code) bool {
	_, ok := canonical[code]
	return ok
}
