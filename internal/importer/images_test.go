package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"plain https jpg", "https://photo.yupoo.com/a/1.jpg", "https://photo.yupoo.com/a/1.jpg", true},
		{"protocol relative", "//photo.yupooo.net/a/2.jpeg", "https://photo.yupooo.net/a/2.jpeg", true},
		{"query string tolerated", "https://cdn.example.com/x.png?version=2", "https://cdn.example.com/x.png?version=2", true},
		{"webp ok", "https://cdn.example.com/x.webp", "https://cdn.example.com/x.webp", true},
		{"logo rejected", "https://cdn.example.com/logo.png", "", false},
		{"watermark rejected", "https://cdn.example.com/img-watermark.jpg", "", false},
		{"icon rejected", "https://cdn.example.com/icons/fav.png", "", false},
		{"gif rejected", "https://cdn.example.com/anim.gif", "", false},
		{"relative path rejected", "/static/photo.jpg", "", false},
		{"empty rejected", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeImageURL(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectImagesLazyAttrPreference(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<img data-src="https://cdn.example.com/real1.jpg" src="https://cdn.example.com/placeholder1.jpg">
		<img data-original="https://cdn.example.com/real2.jpg" src="https://cdn.example.com/placeholder2.jpg">
		<img src="https://cdn.example.com/real3.jpg">
	</body></html>`)

	images := CollectImages(doc, 0)
	assert.Equal(t, []string{
		"https://cdn.example.com/real1.jpg",
		"https://cdn.example.com/real2.jpg",
		"https://cdn.example.com/real3.jpg",
	}, images)
}

func TestCollectImagesDedupesAndFilters(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<img src="https://cdn.example.com/a.jpg">
		<img src="https://cdn.example.com/a.jpg">
		<img src="//cdn.example.com/a.jpg">
		<img src="https://cdn.example.com/logo.png">
		<img src="https://cdn.example.com/b.webp">
	</body></html>`)

	images := CollectImages(doc, 0)
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.webp",
	}, images)
}

func TestCollectImagesCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		sb.WriteString(fmt.Sprintf(`<img src="https://cdn.example.com/photo%d.jpg">`, i))
	}
	sb.WriteString("</body></html>")

	images := CollectImages(docFromHTML(t, sb.String()), 0)
	assert.Len(t, images, DefaultImageCap)

	images = CollectImages(docFromHTML(t, sb.String()), 5)
	assert.Len(t, images, 5)
}
