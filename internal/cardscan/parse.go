// Package cardscan turns a photographed business card into structured lead
// fields: OCR via the Vision API, then heuristic regex extraction over the
// returned text. The parser is deliberately best-guess; the capture form
// lets the user correct anything it gets wrong.
package cardscan

import (
	"regexp"
	"strings"
)

// CardFields are the best-guess structured fields pulled from card text.
// Any field the heuristics cannot identify stays empty.
type CardFields struct {
	Company      string `json:"company"`
	ContactName  string `json:"contactName"`
	ContactTitle string `json:"contactTitle"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
}

// Extraction is the full parser output: the chosen fields plus every email
// and phone candidate found, so the caller can offer alternatives.
type Extraction struct {
	CardFields
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?1[\s\-.]?)?(?:\(\d{3}\)|\d{3})[\s\-.]?\d{3}[\s\-.]?\d{4}`)
	siteRe  = regexp.MustCompile(`(?i)\b((?:https?://)?(?:www\.)?[A-Z0-9.-]+\.[A-Z]{2,}(?:/\S*)?)\b`)

	// Two or three capitalized tokens spanning the whole line.
	nameRe = regexp.MustCompile(`^(?:[A-Z][a-zA-Z'’.-]+)\s+(?:[A-Z][a-zA-Z'’.-]+)(?:\s+[A-Z][a-zA-Z'’.-]+)?$`)

	titleWordsRe = regexp.MustCompile(`(?i)\b(Manager|Director|Owner|President|CEO|CFO|HR|Recruiter|Sales|Consultant|Engineer|Coordinator|Lead|Supervisor|VP)\b`)

	// Lines carrying a corporate suffix look like person names to nameRe
	// ("Acme Corp" is two capitalized tokens) and must never win the
	// contact-name slot.
	companyWordsRe = regexp.MustCompile(`(?i)\b(Inc|Corp|Corporation|Co|Company|LLC|LLP|Ltd|Group|Enterprises|Industries|Services|Solutions|Staffing|Agency)\b`)

	nonPhoneCharRe = regexp.MustCompile(`[^\d+]`)
	tenDigitsRe    = regexp.MustCompile(`^(\d{3})(\d{3})(\d{4})$`)
	digitOrAtRe    = regexp.MustCompile(`[0-9@]`)
	urlHintRe      = regexp.MustCompile(`(?i)www|http|linkedin|@`)
)

// ParseCardText extracts contact fields from raw OCR text. It never fails:
// empty or unrecognizable input yields empty fields.
func ParseCardText(raw string) Extraction {
	text := strings.TrimSpace(strings.NewReplacer("\r", "\n", "\t", " ").Replace(raw))
	lines := splitLines(text)

	emails := unique(emailRe.FindAllString(text, -1))
	phones := unique(normalizePhones(phoneRe.FindAllString(text, -1)))

	result := Extraction{Emails: emails, Phones: phones}
	if len(emails) > 0 {
		result.Email = emails[0]
	}
	if len(phones) > 0 {
		result.Phone = phones[0]
	}
	result.Website = firstWebsite(text)

	// Contact name first: the company pass must know which line the name
	// consumed so the two never collide.
	result.ContactName = pickContactName(lines)
	result.Company = pickCompany(lines, result.ContactName)
	result.ContactTitle = pickContactTitle(lines, result.ContactName)

	return result
}

// Merge applies freshly extracted fields over an existing form: a non-empty
// extracted value wins, an empty one never erases what the user entered.
func Merge(existing, extracted CardFields) CardFields {
	merged := existing
	if extracted.Company != "" {
		merged.Company = extracted.Company
	}
	if extracted.ContactName != "" {
		merged.ContactName = extracted.ContactName
	}
	if extracted.ContactTitle != "" {
		merged.ContactTitle = extracted.ContactTitle
	}
	if extracted.Email != "" {
		merged.Email = extracted.Email
	}
	if extracted.Phone != "" {
		merged.Phone = extracted.Phone
	}
	if extracted.Website != "" {
		merged.Website = extracted.Website
	}
	return merged
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func normalizePhones(matches []string) []string {
	normalized := make([]string, 0, len(matches))
	for _, match := range matches {
		digits := nonPhoneCharRe.ReplaceAllString(match, "")
		if len(digits) == 10 {
			normalized = append(normalized, tenDigitsRe.ReplaceAllString(digits, "($1) $2-$3"))
		} else {
			normalized = append(normalized, match)
		}
	}
	return normalized
}

func firstWebsite(text string) string {
	site := siteRe.FindString(text)
	if site == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(site), "http://") && !strings.HasPrefix(strings.ToLower(site), "https://") {
		site = "http://" + site
	}
	return site
}

// pickContactName finds the first short line shaped like "Firstname Lastname"
// that is not a job title or a company-style name.
func pickContactName(lines []string) string {
	for _, line := range lines {
		if len(line) > 40 {
			continue
		}
		if digitOrAtRe.MatchString(line) {
			continue
		}
		if titleWordsRe.MatchString(line) {
			continue
		}
		if companyWordsRe.MatchString(line) {
			continue
		}
		if nameRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// pickCompany takes the first reasonable line that is not the contact name,
// an email, a number, or a job title.
func pickCompany(lines []string, contactName string) string {
	for _, line := range lines {
		if line == contactName {
			continue
		}
		if digitOrAtRe.MatchString(line) {
			continue
		}
		if len(line) < 2 {
			continue
		}
		if titleWordsRe.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}

// pickContactTitle prefers the line right after the contact name, falling
// back to the first line carrying a title keyword.
func pickContactTitle(lines []string, contactName string) string {
	if contactName != "" {
		for i, line := range lines {
			if line != contactName {
				continue
			}
			if i+1 < len(lines) {
				after := lines[i+1]
				if !emailRe.MatchString(after) &&
					!phoneRe.MatchString(after) &&
					!urlHintRe.MatchString(after) &&
					len(after) < 40 {
					return after
				}
			}
			break
		}
	}

	for _, line := range lines {
		if titleWordsRe.MatchString(line) && len(line) < 60 {
			return line
		}
	}
	return ""
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
