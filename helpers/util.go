package helpers

import (
	"errors"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// AlbumIDFromURL extracts the album identifier from a supplier album URL,
// e.g. https://x.yupoo.com/albums/123456?uid=1 yields "123456".
func AlbumIDFromURL(link string) (string, error) {
	baseLink := strings.Split(link, "?")[0]
	baseLink = strings.TrimRight(baseLink, "/")
	idx := strings.Index(baseLink, "/albums/")
	if idx < 0 {
		return GetSplitPart(baseLink, "/", 3)
	}
	id := baseLink[idx+len("/albums/"):]
	if id == "" || strings.Contains(id, "/") {
		return "", errors.New("malformed album URL")
	}
	return id, nil
}
