package catalog

import (
	"testing"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("should create active product with uppercased sku", func(t *testing.T) {
		price := valueobject.NewMoneyKESFromFloat(1500)

		product, err := NewProduct("CCTV Installation", "cctv-01", "Standard 4 camera setup", price)
		require.NoError(t, err)

		assert.Equal(t, "CCTV Installation", product.Name)
		assert.Equal(t, "CCTV-01", product.SKU)
		assert.True(t, product.Active)
	})

	t.Run("should reject empty name", func(t *testing.T) {
		price := valueobject.NewMoneyKESFromFloat(100)
		_, err := NewProduct("", "SKU", "", price)
		assert.Error(t, err)
	})
}

func TestProduct_Deactivate(t *testing.T) {
	price := valueobject.NewMoneyKESFromFloat(100)
	product, err := NewProduct("Alarm Service", "ALM-01", "", price)
	require.NoError(t, err)

	product.Deactivate()
	assert.False(t, product.Active)

	product.Activate()
	assert.True(t, product.Active)
}
