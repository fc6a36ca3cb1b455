package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL(t *testing.T) {
	first := HashURL("https://www.yit.sk/predaj-bytov/bratislava/123")
	second := HashURL("https://www.yit.sk/predaj-bytov/bratislava/123")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, HashURL("https://www.yit.sk/predaj-bytov/bratislava/124"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://www.yit.sk")
	require.NoError(t, err)

	tests := []struct {
		name     string
		relative string
		want     string
	}{
		{"relative path", "/predaj-bytov/byt-1", "https://www.yit.sk/predaj-bytov/byt-1"},
		{"already absolute", "https://cdn.yit.sk/img/a.jpg", "https://cdn.yit.sk/img/a.jpg"},
		{"path without slash", "predaj-bytov", "https://www.yit.sk/predaj-bytov"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAbsoluteURL(base, tt.relative)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameFromURL(t *testing.T) {
	assert.Equal(t, "photo.jpg", FilenameFromURL("https://cdn.yit.sk/images/photo.jpg"))
	assert.Equal(t, "photo.jpg", FilenameFromURL("https://cdn.yit.sk/images/photo.jpg?w=1200&h=800"))
	assert.Equal(t, "photo.jpg", FilenameFromURL("/images/photo.jpg"))
}
