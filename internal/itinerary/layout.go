package itinerary

import (
	"strings"

	"github.com/go-pdf/fpdf"
)

// A4 portrait, millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 20.0
	contentWidth = pageWidth - 2*margin
	topMargin    = 20.0
	headerHeight = 40.0
	bodyStartY   = 50.0
	footerOffset = 10.0
)

// Space that must remain below the cursor before an element is placed.
const (
	reserveHeading    = 60.0
	reserveSubheading = 40.0
	reserveBodyLine   = 20.0
	reservePhotos     = 80.0
)

const (
	headingAdvance    = 8.0
	subheadingLead    = 5.0
	subheadingAdvance = 7.0
	bodyLineAdvance   = 5.0
	exchangeGap       = 10.0
	profileRowAdvance = 7.0
	photoTitleAdvance = 15.0

	photosPerRow = 2
	photoGap     = 10.0
	photoWidth   = (contentWidth - photoGap) / photosPerRow
	photoHeight  = 40.0
	maxPhotos    = 6
)

type drawFunc func(pdf *fpdf.Fpdf, y float64)

type op struct {
	page int
	y    float64
	draw drawFunc
}

// layout is the pagination state machine. Elements are placed top to
// bottom; drawing is deferred so the page count is final before any page
// is written.
type layout struct {
	y    float64
	page int
	ops  []op
}

func newLayout() *layout {
	return &layout{y: bodyStartY, page: 1}
}

// place starts a new page when the cursor is lower than pageHeight-reserve,
// moves down by lead, records draw at the cursor and moves down by height.
func (l *layout) place(reserve, lead, height float64, draw drawFunc) {
	if l.y > pageHeight-reserve {
		l.page++
		l.y = topMargin
	}
	l.y += lead
	if draw != nil {
		l.ops = append(l.ops, op{page: l.page, y: l.y, draw: draw})
	}
	l.y += height
}

// at records draw on the current page without moving the cursor.
func (l *layout) at(y float64, draw drawFunc) {
	l.ops = append(l.ops, op{page: l.page, y: y, draw: draw})
}

func (l *layout) advance(dy float64) {
	l.y += dy
}

func (l *layout) pages() int {
	return l.page
}

// wrap splits text into lines no wider than width at the current font.
// Words longer than a line are broken where they overflow.
func wrap(pdf *fpdf.Fpdf, text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current string
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if pdf.GetStringWidth(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		for pdf.GetStringWidth(word) > width && len(word) > 1 {
			cut := len(word) - 1
			for cut > 1 && pdf.GetStringWidth(word[:cut]) > width {
				cut--
			}
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
