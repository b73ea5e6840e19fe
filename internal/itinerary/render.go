// Package itinerary exports a conversation to a printable PDF itinerary.
package itinerary

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"viajeia/internal/logger"
	"viajeia/internal/model"
	"viajeia/internal/photos"
)

// Input is everything an export draws on.
type Input struct {
	Profile         model.TripProfile
	LastDestination string
	// Active is the answer on screen when it is not part of History.
	Active  *model.ConversationEntry
	History []model.ConversationEntry
}

// PhotoSource fetches photos in input order, one result per url.
type PhotoSource interface {
	FetchAll(ctx context.Context, urls []string) []photos.Result
}

type rgb struct{ r, g, b int }

var (
	colorBlue      = rgb{30, 64, 175}
	colorLightBlue = rgb{59, 130, 246}
	colorGray      = rgb{107, 114, 128}
	colorBlack     = rgb{0, 0, 0}
	colorWhite     = rgb{255, 255, 255}
)

const fontFamily = "Helvetica"

// Renderer builds itinerary documents.
type Renderer struct {
	photos PhotoSource
	log    *logger.Logger
	now    func() time.Time
}

// NewRenderer creates a renderer. A nil source renders every photo as a
// placeholder.
func NewRenderer(source PhotoSource, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{photos: source, log: log.Named("itinerary"), now: time.Now}
}

type photoSlot struct {
	name string // registered image name, empty when unavailable
	x    float64
}

// Render lays out and draws the itinerary.
func (r *Renderer) Render(ctx context.Context, in Input) (*Document, error) {
	if len(in.History) == 0 && in.Active == nil {
		return nil, fmt.Errorf("nothing to export yet: %w", model.ErrValidation)
	}

	exchanges, allPhotos := collect(in)
	doc := &Document{
		Filename:  Filename(in.Profile.Destination, r.now()),
		Exchanges: len(exchanges),
		Gallery:   gallery(allPhotos),
	}

	images := r.fetchPhotos(ctx, doc.Gallery)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrRender, err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, topMargin, margin)
	pdf.SetTitle("ViajeIA itinerary", true)
	pdf.SetCreator("ViajeIA", true)
	pdf.SetCreationDate(r.now())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	slots := make([]photoSlot, len(doc.Gallery))
	for i, data := range images {
		slots[i].x = margin + float64(i%photosPerRow)*(photoWidth+photoGap)
		if data == nil {
			doc.Placeholders++
			continue
		}
		name := fmt.Sprintf("photo-%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(data))
		slots[i].name = name
		doc.Embedded++
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %w", model.ErrRender, pdf.Error())
	}

	l := newLayout()
	r.layoutHeader(l, tr, in)
	r.layoutExchanges(l, pdf, tr, exchanges)
	r.layoutGallery(l, tr, slots)

	doc.Pages = l.pages()
	pdf.SetFooterFunc(func() {
		footer := fmt.Sprintf(footerTemplate, pdf.PageNo(), doc.Pages)
		doc.Footers = append(doc.Footers, footer)
		setColor(pdf.SetTextColor, colorGray)
		pdf.SetFont(fontFamily, "", 8)
		text := tr(footer)
		pdf.Text((pageWidth-pdf.GetStringWidth(text))/2, pageHeight-footerOffset, text)
	})

	for _, o := range l.ops {
		for pdf.PageNo() < o.page {
			pdf.AddPage()
		}
		o.draw(pdf, o.y)
	}
	for pdf.PageNo() < doc.Pages {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrRender, err)
	}
	doc.data = buf.Bytes()

	r.log.Info("itinerary rendered",
		zap.String("file", doc.Filename),
		zap.Int("pages", doc.Pages),
		zap.Int("exchanges", doc.Exchanges),
		zap.Int("photos", doc.Embedded),
		zap.Int("placeholders", doc.Placeholders),
	)
	return doc, nil
}

// fetchPhotos returns JPEG data per url, nil where the photo is unavailable.
func (r *Renderer) fetchPhotos(ctx context.Context, urls []string) [][]byte {
	out := make([][]byte, len(urls))
	if r.photos == nil || len(urls) == 0 {
		return out
	}

	for i, res := range r.photos.FetchAll(ctx, urls) {
		if i >= len(out) {
			break
		}
		if res.Err != nil || res.Image == nil {
			r.log.Debug("photo replaced by placeholder", zap.String("url", res.URL), zap.Error(res.Err))
			continue
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, res.Image, &jpeg.Options{Quality: 85}); err != nil {
			r.log.Debug("photo could not be encoded", zap.String("url", res.URL), zap.Error(err))
			continue
		}
		out[i] = buf.Bytes()
	}
	return out
}

func (r *Renderer) layoutHeader(l *layout, tr func(string) string, in Input) {
	l.at(0, func(pdf *fpdf.Fpdf, _ float64) {
		setColor(pdf.SetFillColor, colorBlue)
		pdf.Rect(0, 0, pageWidth, headerHeight, "F")
		setColor(pdf.SetTextColor, colorWhite)
		pdf.SetFont(fontFamily, "B", 24)
		pdf.Text(margin, 25, "ViajeIA")
		pdf.SetFont(fontFamily, "", 12)
		pdf.Text(margin, 32, "Your personal travel assistant")
	})

	l.place(0, 0, 10, func(pdf *fpdf.Fpdf, y float64) {
		setColor(pdf.SetTextColor, colorBlue)
		pdf.SetFont(fontFamily, "B", 18)
		pdf.Text(margin, y, "Trip information")
	})

	for _, row := range profileRows(in) {
		label, value := tr(row.label), tr(row.value)
		l.place(0, 0, profileRowAdvance, func(pdf *fpdf.Fpdf, y float64) {
			setColor(pdf.SetTextColor, colorBlack)
			pdf.SetFont(fontFamily, "B", 11)
			pdf.Text(margin, y, label)
			pdf.SetFont(fontFamily, "", 11)
			pdf.Text(margin+40, y, value)
		})
	}
	l.advance(exchangeGap)
}

func (r *Renderer) layoutExchanges(l *layout, pdf *fpdf.Fpdf, tr func(string) string, exchanges []exchange) {
	for i, ex := range exchanges {
		pdf.SetFont(fontFamily, "B", 14)
		heading := wrap(pdf, tr(fmt.Sprintf("Query %d: %s", i+1, ex.question)), contentWidth)
		l.place(reserveHeading, 0, headingAdvance*float64(len(heading)), func(pdf *fpdf.Fpdf, y float64) {
			setColor(pdf.SetTextColor, colorBlue)
			pdf.SetFont(fontFamily, "B", 14)
			for j, line := range heading {
				pdf.Text(margin, y+float64(j)*headingAdvance, line)
			}
		})

		for _, line := range parseAnswer(ex.answer) {
			if line.kind == lineSection {
				text := tr(line.text)
				l.place(reserveSubheading, subheadingLead, subheadingAdvance, func(pdf *fpdf.Fpdf, y float64) {
					setColor(pdf.SetTextColor, colorLightBlue)
					pdf.SetFont(fontFamily, "B", 12)
					pdf.Text(margin, y, text)
				})
				continue
			}

			pdf.SetFont(fontFamily, "", 10)
			for _, wrapped := range wrap(pdf, tr(line.text), contentWidth-5) {
				text := wrapped
				l.place(reserveBodyLine, 0, bodyLineAdvance, func(pdf *fpdf.Fpdf, y float64) {
					setColor(pdf.SetTextColor, colorBlack)
					pdf.SetFont(fontFamily, "", 10)
					pdf.Text(margin+5, y, text)
				})
			}
		}
		l.advance(exchangeGap)
	}
}

func (r *Renderer) layoutGallery(l *layout, tr func(string) string, slots []photoSlot) {
	if len(slots) == 0 {
		return
	}

	l.place(reservePhotos, 0, photoTitleAdvance, func(pdf *fpdf.Fpdf, y float64) {
		setColor(pdf.SetTextColor, colorBlue)
		pdf.SetFont(fontFamily, "B", 16)
		pdf.Text(margin, y, "Destination photos")
	})

	unavailable := tr("Image unavailable")
	for i, slot := range slots {
		advance := 0.0
		if (i+1)%photosPerRow == 0 {
			advance = photoHeight + photoGap
		}
		slot := slot
		l.place(photoHeight+20, 0, advance, func(pdf *fpdf.Fpdf, y float64) {
			if slot.name != "" {
				pdf.ImageOptions(slot.name, slot.x, y, photoWidth, photoHeight, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
				return
			}
			setColor(pdf.SetDrawColor, colorGray)
			pdf.Rect(slot.x, y, photoWidth, photoHeight, "D")
			setColor(pdf.SetTextColor, colorGray)
			pdf.SetFont(fontFamily, "", 10)
			pdf.Text(slot.x+5, y+photoHeight/2, unavailable)
		})
	}
}

func setColor(set func(r, g, b int), c rgb) {
	set(c.r, c.g, c.b)
}
