package docs

import (
	"fmt"
	"testing"

	"github.com/securitylessons/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/swaggo/swag"
)

func TestSwaggerInfo(t *testing.T) {
	assert.Equal(t, fmt.Sprintf("localhost:%d", config.DefaultServerPort), SwaggerInfo.Host)

	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	assert.NoError(t, err)
	assert.Contains(t, doc, `"host": "localhost:8080"`)
	assert.Contains(t, doc, `"/auth/introspect"`)
}
