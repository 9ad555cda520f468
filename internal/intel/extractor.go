// Package intel extracts actionable threat artifacts (payment handles, bank
// account numbers, phishing links) from raw conversation text. Extraction is
// pure and total: it never fails and empty input yields empty results.
package intel

import (
	"regexp"
	"strings"

	"github.com/scamshield/honeypot/internal/core"
)

// maxEntries caps each artifact list.
const maxEntries = 10

var (
	// Payment-handle candidates: local part @ alphabetic-start domain fragment.
	upiPattern = regexp.MustCompile(`\b[a-zA-Z0-9._-]+@[a-zA-Z]{2,}[a-zA-Z0-9]*\b`)

	// Indian bank account numbers run 9-18 digits.
	accountPattern = regexp.MustCompile(`\b\d{9,18}\b`)

	// Routing codes: 4 letters + literal 0 + 6 alphanumerics.
	ifscPattern = regexp.MustCompile(`(?i)\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	// URL candidates, excluding whitespace and quoting/bracket characters.
	urlPattern = regexp.MustCompile(`https?://[^\s<>"'{}|\\^` + "`" + `\[\]]+|www\.[^\s<>"'{}|\\^` + "`" + `\[\]]+`)

	// Phone-number-based payment handles: exactly 10 digits before the @.
	phoneHandlePattern = regexp.MustCompile(`^\d{10}@`)
)

// Known payment-provider and bank handle suffixes.
var validUpiSuffixes = map[string]struct{}{
	"ybl": {}, "okhdfcbank": {}, "okaxis": {}, "oksbi": {}, "okicici": {},
	"paytm": {}, "upi": {}, "gpay": {}, "ibl": {}, "axl": {}, "sbi": {},
	"icici": {}, "hdfc": {}, "axis": {}, "kotak": {}, "bob": {}, "pnb": {},
	"canara": {}, "union": {}, "indian": {}, "idbi": {}, "rbl": {}, "yes": {},
	"federal": {}, "indus": {}, "dbs": {}, "citi": {}, "hsbc": {}, "sc": {},
	"apl": {}, "pingpay": {}, "freecharge": {}, "airtel": {}, "jio": {},
	"waaxis": {}, "wahdfcbank": {}, "wasbi": {}, "waicici": {},
}

// Personal-email providers whose handles are assumed to be ordinary
// addresses, not payment handles.
var emailProviders = []string{"gmail", "yahoo", "hotmail", "outlook", "mail", "email"}

var bankContextKeywords = []string{
	"account", "a/c", "bank", "transfer", "send", "money",
	"deposit", "credit", "debit", "neft", "rtgs", "imps",
	"ifsc", "branch", "savings", "current",
}

var suspiciousIndicators = []string{
	"verify", "secure", "update", "confirm", "login",
	"bank", "account", "claim", "prize", "winner",
	"kyc", "suspend", "block", "urgent", "reward",
	"lottery", "lucky", "bonus", "offer", "free",
}

var urlShorteners = []string{"bit.ly", "tinyurl", "goo.gl", "t.co", "ow.ly", "is.gd", "buff.ly"}

var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".click", ".online", ".site", ".win", ".vip"}

var legitimateDomains = []string{
	"google.com", "facebook.com", "twitter.com", "instagram.com",
	"youtube.com", "github.com", "linkedin.com", "microsoft.com",
	"apple.com", "amazon.com", "wikipedia.org", "gov.in",
	"sbi.co.in", "hdfcbank.com", "icicibank.com", "axisbank.com",
}

// ExtractAll pulls every artifact category out of the given text. The input
// may be a single message or a whole conversation joined together.
func ExtractAll(text string) *core.ExtractedIntelligence {
	accounts, ifscCodes := extractBankInfo(text)

	bankInfo := dedupe(accounts)
	for _, ifsc := range ifscCodes {
		bankInfo = append(bankInfo, "IFSC: "+ifsc)
	}

	return &core.ExtractedIntelligence{
		BankAccounts:  cap10(bankInfo),
		UpiIDs:        cap10(dedupe(extractUpiIDs(text))),
		PhishingLinks: cap10(dedupe(extractPhishingLinks(text))),
	}
}

// ExtractFromConversation joins all message texts and extracts over the
// combined window.
func ExtractFromConversation(messages []core.Message) *core.ExtractedIntelligence {
	texts := make([]string, 0, len(messages))
	for _, msg := range messages {
		texts = append(texts, msg.Text)
	}
	return ExtractAll(strings.Join(texts, " "))
}

func extractUpiIDs(text string) []string {
	var valid []string
	for _, candidate := range upiPattern.FindAllString(text, -1) {
		if isLikelyEmail(candidate) {
			continue
		}

		suffix := handleSuffix(candidate)
		if _, ok := validUpiSuffixes[suffix]; ok ||
			strings.Contains(suffix, "upi") || strings.Contains(suffix, "pay") {
			valid = append(valid, candidate)
		} else if phoneHandlePattern.MatchString(candidate) {
			valid = append(valid, candidate)
		}
	}
	return valid
}

func handleSuffix(candidate string) string {
	parts := strings.Split(candidate, "@")
	return strings.ToLower(parts[len(parts)-1])
}

func isLikelyEmail(candidate string) bool {
	suffix := handleSuffix(candidate)
	for _, provider := range emailProviders {
		if strings.Contains(suffix, provider) {
			return true
		}
	}
	return false
}

func extractBankInfo(text string) (accounts, ifscCodes []string) {
	for _, candidate := range accountPattern.FindAllString(text, -1) {
		// 10-digit runs starting 6-9 are mobile numbers, not accounts
		if len(candidate) == 10 && candidate[0] >= '6' && candidate[0] <= '9' {
			continue
		}
		if len(candidate) < 9 || len(candidate) > 18 {
			continue
		}
		if hasBankContext(text, candidate) {
			accounts = append(accounts, candidate)
		}
	}

	ifscCodes = ifscPattern.FindAllString(text, -1)
	return accounts, ifscCodes
}

// hasBankContext checks for a banking keyword within 100 characters on
// either side of the candidate's first occurrence. Unlocatable candidates
// are accepted rather than dropped.
func hasBankContext(text, number string) bool {
	pos := strings.Index(text, number)
	if pos == -1 {
		return true
	}

	start := pos - 100
	if start < 0 {
		start = 0
	}
	end := pos + len(number) + 100
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[start:end])

	for _, keyword := range bankContextKeywords {
		if strings.Contains(window, keyword) {
			return true
		}
	}
	return false
}

func extractPhishingLinks(text string) []string {
	var suspicious []string
	for _, url := range urlPattern.FindAllString(text, -1) {
		url = strings.Trim(url, ".,;:!?()")
		lower := strings.ToLower(url)

		if isLegitimateDomain(lower) {
			continue
		}

		if containsAny(lower, suspiciousIndicators) ||
			containsAny(lower, urlShorteners) ||
			containsAny(lower, suspiciousTLDs) {
			suspicious = append(suspicious, url)
		}
	}
	return suspicious
}

func isLegitimateDomain(url string) bool {
	return containsAny(url, legitimateDomains)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func cap10(values []string) []string {
	if values == nil {
		return []string{}
	}
	if len(values) > maxEntries {
		return values[:maxEntries]
	}
	return values
}
