package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatByLabel(t *testing.T) {
	f, ok := FormatByLabel("instagram square (1:1)")
	assert.True(t, ok)
	assert.Equal(t, 1080, f.Width)
	assert.Equal(t, 1080, f.Height)
	assert.Equal(t, "1:1", f.AspectRatio)

	_, ok = FormatByLabel("TikTok (9:16)")
	assert.False(t, ok)

	assert.Equal(t, "Instagram Square (1:1)", DefaultFormat().Label)
}

func TestDownloadName(t *testing.T) {
	tests := map[string]string{
		"Instagram Square (1:1)":  "instagram_square_(1:1).png",
		"Twitter Post (16:9)":     "twitter_post_(16:9).png",
		"Facebook Cover (205:78)": "facebook_cover_(205:78).png",
	}
	for label, want := range tests {
		assert.Equal(t, want, OutputFormat{Label: label}.DownloadName())
	}
	assert.Equal(t, "a_b.png", OutputFormat{Label: "A \t  B"}.DownloadName())
}

func TestCompressionPercentage(t *testing.T) {
	assert.Equal(t, 75, Video{OriginalSize: "1000", CompressedSize: "250"}.CompressionPercentage())
	assert.Equal(t, 0, Video{OriginalSize: "", CompressedSize: "250"}.CompressionPercentage())
	assert.Equal(t, 0, Video{OriginalSize: "0", CompressedSize: "250"}.CompressionPercentage())
	assert.Equal(t, -25, Video{OriginalSize: "200", CompressedSize: "250"}.CompressionPercentage())
}
