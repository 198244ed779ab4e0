package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDatasetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "properties.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDatasetLoadAndSearch(t *testing.T) {
	path := writeDatasetFile(t, `{"properties":[
		{"id":"DS_1","platform":"네이버","title":"삼성동 아이파크","address":"서울 강남구 삼성동 87","price":420000},
		{"id":"DS_2","platform":"직방","title":"역삼동 오피스텔","address":"서울 강남구 역삼동 123","price":10000},
		{"id":"DS_3","platform":"다방","title":"힐스테이트","address":"서울 강남구 삼성동 159-1","price":265000}
	]}`)

	dataset := NewDataset(quietLogger())
	require.NoError(t, dataset.Load(path))
	assert.Equal(t, 3, dataset.Len())

	// Every term must match, against address or title.
	matched := dataset.Search("강남구 삼성동")
	require.Len(t, matched, 2)
	assert.Equal(t, "DS_1", matched[0].ID)
	assert.Equal(t, "DS_3", matched[1].ID)

	// Title-only terms count too.
	matched = dataset.Search("아이파크")
	require.Len(t, matched, 1)
	assert.Equal(t, "DS_1", matched[0].ID)

	assert.Empty(t, dataset.Search("부산"))
}

func TestDatasetLoadMissingFile(t *testing.T) {
	dataset := NewDataset(quietLogger())

	err := dataset.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Zero(t, dataset.Len())
}

func TestDatasetLoadBadJSON(t *testing.T) {
	path := writeDatasetFile(t, `{"properties": not-json`)

	dataset := NewDataset(quietLogger())
	assert.Error(t, dataset.Load(path))
}

func TestDatasetSearchBeforeLoad(t *testing.T) {
	dataset := NewDataset(quietLogger())
	assert.Empty(t, dataset.Search("삼성동"))
}
