package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestCalculationLog_AmountColumnsFitExtremeMargins(t *testing.T) {
	s, err := schema.Parse(&CalculationLog{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	// a price of 0.01 against a cost of 10001 gives a margin of about -1e8 %
	for _, name := range []string{"SalePrice", "Profit", "Margin"} {
		f := s.LookUpField(name)
		require.NotNil(t, f, name)
		assert.Equal(t, schema.DataType("decimal(20,4)"), f.DataType, name)
	}
}

func TestNormalizeChannelType(t *testing.T) {
	assert.Equal(t, "amazon", NormalizeChannelType(" Amazon "))
	assert.Equal(t, "mercadolivre", NormalizeChannelType("MercadoLivre"))
	assert.Equal(t, "", NormalizeChannelType("  "))
}
