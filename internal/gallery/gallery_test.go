package gallery

import (
	"testing"

	"photoflow_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func testPhotos() []models.Photo {
	return []models.Photo{
		{Caption: "Sunset over hills", Tags: datatypes.JSONSlice[string]{"nature", "sunset"}},
		{Caption: "City at night", Tags: datatypes.JSONSlice[string]{"urban"}},
		{Caption: "", Tags: datatypes.JSONSlice[string]{"Sunrise"}},
		{Caption: "Morning coffee", Tags: nil},
	}
}

// TestFilter_EmptyQuery - пустой запрос возвращает список как есть
func TestFilter_EmptyQuery(t *testing.T) {
	t.Parallel()

	photos := testPhotos()

	assert.Equal(t, photos, Filter(photos, ""))
	assert.Equal(t, photos, Filter(photos, "   "))
}

// TestFilter_MatchesCaptionAndTags - поиск без учета регистра по подписи и тегам
func TestFilter_MatchesCaptionAndTags(t *testing.T) {
	t.Parallel()

	photos := testPhotos()

	// По подписи
	result := Filter(photos, "SUNSET")
	assert.Len(t, result, 1)
	assert.Equal(t, "Sunset over hills", result[0].Caption)

	// По тегу, подстрока
	result = Filter(photos, "sun")
	assert.Len(t, result, 2)
	assert.Equal(t, "Sunset over hills", result[0].Caption)
	assert.Equal(t, []string{"Sunrise"}, []string(result[1].Tags))

	// Ничего не найдено
	assert.Empty(t, Filter(photos, "ocean"))
}

// TestFilter_PreservesOrder - результат всегда подпоследовательность исходного списка
func TestFilter_PreservesOrder(t *testing.T) {
	t.Parallel()

	photos := testPhotos()
	result := Filter(photos, "t")

	prev := -1
	for _, photo := range result {
		found := -1
		for i := range photos {
			if photos[i].Caption == photo.Caption && i > prev {
				found = i
				break
			}
		}
		assert.Greater(t, found, prev, "порядок исходного списка должен сохраняться")
		prev = found
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, ParseTags("a, b, c"))
	assert.Equal(t, []string{"a", "b"}, ParseTags("a,, b ,"))
	assert.Equal(t, []string{"one"}, ParseTags("  one  "))
	assert.Empty(t, ParseTags(""))
	assert.Empty(t, ParseTags(" , , "))

	// Дубликаты и порядок сохраняются
	assert.Equal(t, []string{"b", "a", "b"}, ParseTags("b,a,b"))
}
