package vehicles_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-service/internal/vehicles"
)

const catalogJSON = `{
  "data": [
    {
      "id": "TOYOTA",
      "name": "Toyota",
      "cyrillic_name": "Тойота",
      "models": [
        {"id": "LAND_CRUISER", "name": "Land Cruiser", "cyrillic_name": "Ленд Крузер"},
        {"id": "CAMRY", "name": "Camry"}
      ]
    },
    {
      "id": "LADA",
      "name": "Lada",
      "models": [{"id": "VESTA", "name": "Vesta", "cyrillic_name": "Веста"}]
    }
  ]
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBrands(t *testing.T) {
	t.Parallel()

	catalog := vehicles.NewCatalog(writeCatalog(t, catalogJSON), time.Minute)
	brands, err := catalog.Brands()
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, vehicles.BrandSummary{ID: "TOYOTA", Name: "Toyota", CyrillicName: "Тойота"}, brands[0])
	assert.Equal(t, "Lada", brands[1].CyrillicName)
}

func TestModels(t *testing.T) {
	t.Parallel()

	catalog := vehicles.NewCatalog(writeCatalog(t, catalogJSON), time.Minute)

	models, err := catalog.Models("toyota")
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "Toyota Land Cruiser", models[0].FullName)
	assert.Equal(t, "Camry", models[1].CyrillicName)

	models, err = catalog.Models("unknown")
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	catalog := vehicles.NewCatalog(writeCatalog(t, catalogJSON), time.Minute)

	results, err := catalog.Search("t")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = catalog.Search("  TOY ")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, vehicles.SearchResult{Type: "brand", Value: "Toyota", Label: "Toyota (Тойота)"}, results[0])
	assert.Equal(t, "Toyota Land Cruiser (Ленд Крузер)", results[1].Label)
	assert.Equal(t, "Toyota Camry (Camry)", results[2].Label)

	results, err = catalog.Search("веста")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Lada Vesta", results[0].Value)
}

func TestSearchLimitsResults(t *testing.T) {
	t.Parallel()

	var models []string
	for i := 0; i < 30; i++ {
		models = append(models, fmt.Sprintf(`{"id":"M%d","name":"Model %d"}`, i, i))
	}
	content := fmt.Sprintf(`{"data":[{"id":"X","name":"Brand","models":[%s]}]}`, strings.Join(models, ","))

	catalog := vehicles.NewCatalog(writeCatalog(t, content), time.Minute)
	results, err := catalog.Search("model")
	require.NoError(t, err)
	assert.Len(t, results, 20)
}

func TestCatalogReloadsAfterTTL(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, catalogJSON)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	catalog := vehicles.NewCatalog(path, time.Minute).WithClock(func() time.Time { return now })

	brands, err := catalog.Brands()
	require.NoError(t, err)
	require.Len(t, brands, 2)

	require.NoError(t, os.WriteFile(path, []byte(`{"data":[{"id":"KIA","name":"Kia"}]}`), 0o600))

	brands, err = catalog.Brands()
	require.NoError(t, err)
	assert.Len(t, brands, 2, "cached copy must be served within ttl")

	now = now.Add(2 * time.Minute)
	brands, err = catalog.Brands()
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "KIA", brands[0].ID)
}

func TestCatalogErrors(t *testing.T) {
	t.Parallel()

	_, err := vehicles.NewCatalog(filepath.Join(t.TempDir(), "missing.json"), 0).Brands()
	require.Error(t, err)

	_, err = vehicles.NewCatalog(writeCatalog(t, "{"), 0).Models("x")
	require.Error(t, err)
}
