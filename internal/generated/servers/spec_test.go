package servers_test

import (
	"context"
	"testing"

	"delivery/internal/generated/servers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	doc, err := servers.GetSwagger()
	require.NoError(t, err)

	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Find("/api/v1/routes/assign"))
	assert.NotNil(t, doc.Paths.Find("/api/v1/couriers/{courierId}/optimized-route"))
	assert.Contains(t, doc.Components.Schemas, "Route")
}
