package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDoc(t *testing.T) {
	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "/v1", doc.BasePath)
	assert.NotEmpty(t, doc.Paths)

	for path, method := range map[string]string{
		"/stores":                                "post",
		"/stores/{storeID}/products/{productID}": "patch",
		"/stores/{storeID}/sizes/{sizeID}":       "get",
		"/stores/{storeID}/colors/{colorID}":     "get",
		"/stores/{storeID}/checkout":             "post",
		"/webhooks/stripe":                       "post",
	} {
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, path) {
			assert.Contains(t, ops, method, path)
		}
	}

	assert.Contains(t, doc.Definitions, "products.ProductDetail")
	assert.Contains(t, doc.Definitions, "orders.Order")
}
