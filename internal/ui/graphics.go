package ui

import (
	"context"
	"image"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qeesung/image2ascii/convert"

	"viajeia/internal/model"
)

const (
	previewCount   = 2
	previewWidth   = 32
	previewHeight  = 10
	previewTimeout = 15 * time.Second
)

// PhotoFetcher downloads and decodes a photo.
type PhotoFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// TerminalCapabilities represents what the terminal can display.
type TerminalCapabilities struct {
	Color  bool
	Images bool
}

// DetectTerminalCapabilities inspects the environment.
func DetectTerminalCapabilities() TerminalCapabilities {
	term := os.Getenv("TERM")
	if term == "dumb" {
		return TerminalCapabilities{}
	}
	return TerminalCapabilities{
		Color:  os.Getenv("NO_COLOR") == "",
		Images: os.Getenv("VIAJEIA_NO_PREVIEW") == "" && !strings.HasPrefix(term, "vt"),
	}
}

// RenderPhoto renders a photo as ASCII art sized for the conversation view.
func RenderPhoto(img image.Image, caps TerminalCapabilities, targetWidth, targetHeight int) string {
	return convertToASCII(img, caps.Color, targetWidth, targetHeight)
}

// convertToASCII converts an image to ASCII art.
func convertToASCII(img image.Image, colored bool, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = colored
	opts.Ratio = 0.5 // Adjust for terminal character aspect ratio

	return converter.Image2ASCIIString(img, &opts)
}

// loadPreviewsCmd fetches the first photos of an answer and renders them.
func loadPreviewsCmd(fetcher PhotoFetcher, caps TerminalCapabilities, urls []string) tea.Cmd {
	if fetcher == nil || !caps.Images || len(urls) == 0 {
		return nil
	}

	var cmds []tea.Cmd
	for _, url := range firstN(urls, previewCount) {
		url := url
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
			defer cancel()
			img, err := fetcher.Fetch(ctx, url)
			if err != nil {
				return model.PreviewLoadedMsg{URL: url, Err: err}
			}
			return model.PreviewLoadedMsg{URL: url, Art: RenderPhoto(img, caps, previewWidth, previewHeight)}
		})
	}
	return tea.Batch(cmds...)
}
