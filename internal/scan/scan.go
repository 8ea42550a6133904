// Package scan provides the secret/PII detection utility used by the
// scan_text hook tool.
//
// It is deliberately simple: a fixed set of compiled regular expressions
// matched line by line, no state, no tuning. The goal is catching the
// obvious (a pasted AWS key, a private key block) before it lands in a
// commit or a chat transcript — not replacing a real secret scanner.
package scan

import (
	"regexp"
	"strings"
)

// Finding is one matched pattern with its location. Match holds a redacted
// excerpt — findings end up in tool output, which must not re-leak the
// secret it just caught.
type Finding struct {
	Category string `json:"category"`
	Line     int    `json:"line"`
	Match    string `json:"match"`
}

// pattern pairs a category name with its compiled expression.
type pattern struct {
	category string
	re       *regexp.Regexp
}

var patterns = []pattern{
	{"aws access key", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"github token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"slack token", regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
	{"private key", regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----`)},
	{"bearer token", regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{20,}=*`)},
	{"api key assignment", regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret|password|token)\b\s*[:=]\s*['"][^'"]{12,}['"]`)},
	{"email address", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
}

// Text scans the input and returns all findings in line order.
func Text(input string) []Finding {
	var findings []Finding
	for i, line := range strings.Split(input, "\n") {
		for _, p := range patterns {
			for _, match := range p.re.FindAllString(line, -1) {
				findings = append(findings, Finding{
					Category: p.category,
					Line:     i + 1,
					Match:    redact(match),
				})
			}
		}
	}
	return findings
}

// redact keeps just enough of the match to locate it in the source.
func redact(s string) string {
	const keep = 6
	if len(s) <= keep {
		return s
	}
	return s[:keep] + "…[redacted]"
}
