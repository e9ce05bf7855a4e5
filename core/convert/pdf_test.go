package convert

import (
	"testing"

	"github.com/siherrmann/paperrag/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFConverterConvert(t *testing.T) {
	converter := NewPDFConverter()

	t.Run("Empty bytes fail with conversion kind", func(t *testing.T) {
		_, err := converter.Convert(nil)

		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConversionFailed), "Expected conversion failed kind")
	})

	t.Run("Non-pdf bytes fail with conversion kind", func(t *testing.T) {
		_, err := converter.Convert([]byte("this is definitely not a pdf"))

		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConversionFailed), "Expected conversion failed kind")
	})

	t.Run("Truncated pdf header fails without panicking", func(t *testing.T) {
		_, err := converter.Convert([]byte("%PDF-1.7\ngarbage"))

		require.Error(t, err)
		assert.True(t, helper.IsKind(err, helper.KindConversionFailed), "Expected conversion failed kind")
	})
}
