package itinerary

import (
	"regexp"
	"strings"

	"viajeia/internal/model"
)

const (
	notSpecified   = "Not specified"
	initialQuery   = "Initial query"
	fallbackName   = "Trip"
	footerTemplate = "Page %d of %d — generated by ViajeIA"
)

// sectionHeading matches the section titles the planning service uses,
// in English and in the Spanish the service originally answered in.
var sectionHeading = regexp.MustCompile(`(?i)^(LODGING|LOCAL FOOD|MUST-SEE PLACES|LOCAL TIPS|COST ESTIMATE|ALOJAMIENTO|COMIDA LOCAL|LUGARES IMPERDIBLES|CONSEJOS LOCALES|ESTIMACIÓN DE COSTOS):\s*(.*)$`)

var bulletMarker = regexp.MustCompile(`^[•\-\*]\s*`)

type lineKind int

const (
	lineBody lineKind = iota
	lineSection
)

type answerLine struct {
	kind lineKind
	text string
}

// parseAnswer splits an answer into section headings and body lines.
// Blank lines are dropped and bullet markers are normalized. Text after a
// heading's colon becomes a body line of its own.
func parseAnswer(answer string) []answerLine {
	var out []answerLine
	for _, raw := range strings.Split(answer, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := sectionHeading.FindStringSubmatch(line); m != nil {
			out = append(out, answerLine{kind: lineSection, text: strings.ToUpper(m[1]) + ":"})
			if rest := strings.TrimSpace(m[2]); rest != "" {
				out = append(out, answerLine{kind: lineBody, text: normalizeBullet(rest)})
			}
			continue
		}
		out = append(out, answerLine{kind: lineBody, text: normalizeBullet(line)})
	}
	return out
}

func normalizeBullet(line string) string {
	return bulletMarker.ReplaceAllLiteralString(line, "• ")
}

type exchange struct {
	question string
	answer   string
}

// collect orders the exchanges for export, the active one first, and
// gathers the union of their photos in first-seen order.
func collect(in Input) ([]exchange, []string) {
	var exchanges []exchange
	var photos []string
	seen := make(map[string]bool)
	addPhotos := func(urls []string) {
		for _, u := range urls {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			photos = append(photos, u)
		}
	}

	if in.Active != nil {
		question := strings.TrimSpace(in.Active.Question)
		if question == "" {
			question = initialQuery
		}
		exchanges = append(exchanges, exchange{question: question, answer: in.Active.Answer})
		addPhotos(in.Active.Photos)
	}
	for _, e := range in.History {
		exchanges = append(exchanges, exchange{question: e.Question, answer: e.Answer})
		addPhotos(e.Photos)
	}
	return exchanges, photos
}

// gallery caps the photo set.
func gallery(photos []string) []string {
	if len(photos) > maxPhotos {
		return photos[:maxPhotos]
	}
	return photos
}

type profileRow struct {
	label string
	value string
}

func profileRows(in Input) []profileRow {
	destination := strings.TrimSpace(in.Profile.Destination)
	if destination == "" {
		destination = strings.TrimSpace(in.LastDestination)
	}
	return []profileRow{
		{"Destination:", orNotSpecified(destination)},
		{"Date:", orNotSpecified(in.Profile.Date)},
		{"Budget:", budgetLabel(in.Profile.Budget)},
		{"Preference:", orNotSpecified(in.Profile.Preference.Label())},
	}
}

func budgetLabel(b model.Budget) string {
	if b == "" {
		return notSpecified
	}
	return b.Label()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
