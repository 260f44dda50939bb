package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"ritcompass/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_KeepsOrder(t *testing.T) {
	base, err := New([]models.CategoryRecord{{Key: "b"}, {Key: "a"}, {Key: "c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, base.Keys())
	assert.Equal(t, 3, base.Len())
}

func TestNew_RejectsDuplicateKey(t *testing.T) {
	_, err := New([]models.CategoryRecord{{Key: "a"}, {Key: "a"}})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestNew_RejectsEmptyKey(t *testing.T) {
	_, err := New([]models.CategoryRecord{{Key: "  "}})
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestGet_UnknownKey(t *testing.T) {
	base, err := New([]models.CategoryRecord{{Key: "a"}})
	require.NoError(t, err)

	_, err = base.Get("missing")
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	base, err := New([]models.CategoryRecord{sampleRecord()})
	require.NoError(t, err)

	rec, err := base.Get("scholarship")
	require.NoError(t, err)
	rec.Items[0].Steps[0].Title = "mutated"
	rec.Keywords[0] = "mutated"

	again, err := base.Get("scholarship")
	require.NoError(t, err)
	assert.Equal(t, "Submit FAFSA", again.Items[0].Steps[0].Title)
	assert.Equal(t, "scholarship", again.Keywords[0])
}

func TestLoadDefault(t *testing.T) {
	base, err := LoadDefault()
	require.NoError(t, err)

	assert.Contains(t, base.Keys(), "scholarship")
	rec, err := base.Get("scholarship")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Keywords)
	assert.NotEmpty(t, rec.Items[0].Steps)
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	data := `{"categories": [{"key": "library", "name": "Library", "short_desc": "Borrowing books.",
		"keywords": ["library", "books"], "items": [{"title": "Borrowing", "description": "Use your ID."}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	base, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"library"}, base.Keys())
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("categories:\n  - key: a\n    nmae: typo\n"))
	require.Error(t, err)
}

func TestParse_RejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("categories: []\n"))
	require.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
