package gallery

import (
	"strings"

	"photoflow_backend/internal/models"
)

// Filter возвращает подпоследовательность photos, у которых caption или
// хотя бы один тег содержит query как подстроку (без учета регистра).
// Пустой query возвращает исходный список как есть. Исходный порядок
// сохраняется, записи не изменяются.
func Filter(photos []models.Photo, query string) []models.Photo {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return photos
	}

	filtered := make([]models.Photo, 0, len(photos))
	for _, photo := range photos {
		if Matches(photo, q) {
			filtered = append(filtered, photo)
		}
	}
	return filtered
}

// Matches проверяет одно фото против уже нормализованного запроса.
func Matches(photo models.Photo, normalizedQuery string) bool {
	if strings.Contains(strings.ToLower(photo.Caption), normalizedQuery) {
		return true
	}
	for _, tag := range photo.Tags {
		if strings.Contains(strings.ToLower(tag), normalizedQuery) {
			return true
		}
	}
	return false
}

// ParseTags разбивает строку тегов по запятым: пробелы обрезаются,
// пустые элементы отбрасываются, порядок и дубликаты сохраняются.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
