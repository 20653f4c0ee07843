package services

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageMediaType reports whether the media type (or, when it is empty,
// the filename extension) denotes an image we accept for analysis.
func IsImageMediaType(mediaType string, fileName string) bool {
	if mediaType == "" {
		mediaType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	}
	if strings.HasPrefix(mediaType, "image/") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// DescriptionFromFileName derives a short human description from an
// uploaded file name: base name without extension, capped at maxLen runes.
func DescriptionFromFileName(fileName string, maxLen int) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.TrimSpace(base)
	if base == "" {
		base = fileName
	}
	runes := []rune(base)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	return string(runes)
}

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
