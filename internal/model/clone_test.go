package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_Clone_NoSharedMemory(t *testing.T) {
	t.Parallel()

	orig := &Device{
		ID:    uuid.New(),
		Name:  "LODUFKA 2000",
		Price: 3000,
		Mass:  80000,
		Type:  DeviceTypeFridge,
		User: &User{
			ID:    uuid.New(),
			Login: "kevin",
			Roles: []Role{RoleUser},
		},
		Brand: &Brand{ID: uuid.New(), Name: "Sasung", EstablishedAt: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		Image: []byte{1, 2, 3},
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Image[0] = 9
	c.User.Roles[0] = RoleAdmin
	c.User.Login = "mallory"
	c.Brand.Name = "Other"

	assert.Equal(t, byte(1), orig.Image[0])
	assert.Equal(t, RoleUser, orig.User.Roles[0])
	assert.Equal(t, "kevin", orig.User.Login)
	assert.Equal(t, "Sasung", orig.Brand.Name)
}

func TestDevice_Clone_NilFields(t *testing.T) {
	t.Parallel()

	var d *Device
	assert.Nil(t, d.Clone())

	c := (&Device{Name: "bare"}).Clone()
	assert.Nil(t, c.User)
	assert.Nil(t, c.Brand)
	assert.Nil(t, c.Image)
}

func TestUser_Clone_Roles(t *testing.T) {
	t.Parallel()

	u := &User{Login: "admin", Roles: []Role{RoleAdmin, RoleUser}}
	c := u.Clone()
	c.Roles = append(c.Roles[:1], RoleUser)
	c.Roles[0] = RoleUser

	assert.Equal(t, []Role{RoleAdmin, RoleUser}, u.Roles)
	assert.True(t, u.HasRole(RoleAdmin))
	assert.False(t, c.HasRole(RoleAdmin))
}

func TestParseDeviceType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    DeviceType
		wantErr bool
	}{
		{"FRIDGE", DeviceTypeFridge, false},
		{"phone", DeviceTypePhone, false},
		{" tv ", DeviceTypeTV, false},
		{"Tablet", DeviceTypeTablet, false},
		{"toaster", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeviceType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
