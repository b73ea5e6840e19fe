package infopanel

import (
	"fmt"
	"strings"

	"viajeia/internal/model"
)

// EmptyHint is shown while no destination is known.
const EmptyHint = "Ask about a destination to see its weather, exchange rates and local time."

// Lines formats info for display. Missing fields are left out; a panel with
// no data at all yields nil.
func Lines(info model.PanelInfo) []string {
	var lines []string

	var weather []string
	if info.Temperature != nil {
		weather = append(weather, fmt.Sprintf("%.0f°C", *info.Temperature))
	}
	if info.WeatherDescription != nil && *info.WeatherDescription != "" {
		weather = append(weather, *info.WeatherDescription)
	}
	if len(weather) > 0 {
		line := "Weather: " + strings.Join(weather, ", ")
		if info.City != nil && *info.City != "" {
			line += " in " + *info.City
		}
		lines = append(lines, line)
	}

	if info.USDRate != nil {
		lines = append(lines, fmt.Sprintf("USD: %.4f", *info.USDRate))
	}
	if info.EURRate != nil {
		lines = append(lines, fmt.Sprintf("EUR: %.4f", *info.EURRate))
	}

	if info.TimeOffset != nil && *info.TimeOffset != "" {
		lines = append(lines, "Time difference: "+*info.TimeOffset)
	}
	if info.LocalTime != nil && *info.LocalTime != "" {
		lines = append(lines, "Local time: "+*info.LocalTime)
	}
	return lines
}
