package domain

import (
	"regexp"
	"strings"
)

// OutputFormat named target dimensions used to request a rendition
type OutputFormat struct {
	Label       string `json:"label"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	AspectRatio string `json:"aspectRatio"`
}

// Formats the fixed social media format table, first entry is the default
var Formats = []OutputFormat{
	{Label: "Instagram Square (1:1)", Width: 1080, Height: 1080, AspectRatio: "1:1"},
	{Label: "Instagram Portrait (4:5)", Width: 1080, Height: 1350, AspectRatio: "4:5"},
	{Label: "Twitter Post (16:9)", Width: 1920, Height: 1080, AspectRatio: "16:9"},
	{Label: "Twitter Header (3:1)", Width: 1500, Height: 500, AspectRatio: "3:1"},
	{Label: "Facebook Cover (205:78)", Width: 820, Height: 312, AspectRatio: "205:78"},
}

var whitespace = regexp.MustCompile(`\s+`)

// DefaultFormat Instagram Square (1:1)
func DefaultFormat() OutputFormat {
	return Formats[0]
}

// FormatByLabel case-insensitive lookup in Formats
func FormatByLabel(label string) (OutputFormat, bool) {
	label = strings.TrimSpace(label)
	for _, f := range Formats {
		if strings.EqualFold(f.Label, label) {
			return f, true
		}
	}
	return OutputFormat{}, false
}

// DownloadName file name of a downloaded rendition: label lowercased, whitespace runs as "_", ".png"
func (f OutputFormat) DownloadName() string {
	return strings.ToLower(whitespace.ReplaceAllString(f.Label, "_")) + ".png"
}
