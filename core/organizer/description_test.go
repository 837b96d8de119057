package organizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/organizer/core/organizer"
)

func TestDescription(t *testing.T) {
	text := "Major:CS\nFavorite: <b>Go</b> & tea"
	html := organizer.TextToHTML(text)

	assert.Contains(t, html, `<label>Major</label>`)
	assert.Contains(t, html, `&lt;b&gt;Go&lt;/b&gt; &amp; tea`)
	assert.Equal(t, text, organizer.HTMLToText(html))

	assert.Equal(t, "Major:CS", organizer.HTMLToText(organizer.TextToHTML("Major:CS\r\n\r\nno colon here")))
	assert.Equal(t, "", organizer.HTMLToText(`<div class="container"><label>broken`))
}

func TestValidDescription(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"lines", "Major:CS\r\nYear: 2\n", true},
		{"no colon", "Major CS", false},
		{"two colons", "Time: 10:00", false},
		{"too long", "Key:" + "abcdefghijklmnopqrstuvwxyzabcdefghijklmn", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, organizer.ValidDescription(tt.text))
		})
	}
}

func TestDefaultDescription(t *testing.T) {
	desc := organizer.DefaultDescription("alice@test.edu")
	assert.True(t, organizer.ValidDescription(organizer.HTMLToText(desc)))
	assert.Equal(t, "Email:alice@test.edu", organizer.ProfileText(organizer.Student{Description: desc}))
}
