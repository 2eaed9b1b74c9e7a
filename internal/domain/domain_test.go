package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLegacyImageField(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","name":"Runner","price":60,"stock":0,"image":"uploads/a.png","images":[""]}`), &p))
	assert.Equal(t, []string{"uploads/a.png"}, p.Images)
	assert.False(t, p.InStock())

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p2","images":["x.png","y.png"],"image":"z.png","size":[9,10.5]}`), &p))
	assert.Equal(t, []string{"x.png", "y.png"}, p.Images)
	assert.True(t, p.HasSize(10.5))
	assert.False(t, p.HasSize(11))
}

func TestRoleWireFormat(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","role":"manager"}`), &u))
	assert.True(t, u.IsManager())

	err := json.Unmarshal([]byte(`{"_id":"u1","role":"Manager"}`), &u)
	assert.Error(t, err, "role matching is exact")

	b, err := json.Marshal(User{ID: "u2", Role: RoleCustomer})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u2","name":"","email":"","role":"customer"}`, string(b))

	var nobody *User
	assert.False(t, nobody.IsManager())
}
