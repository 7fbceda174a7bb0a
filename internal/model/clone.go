package model

// Clone returns a copy of the user that shares no memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Roles != nil {
		c.Roles = make([]Role, len(u.Roles))
		copy(c.Roles, u.Roles)
	}
	return &c
}

// Clone returns a copy of the brand.
func (b *Brand) Clone() *Brand {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// Clone returns a deep copy of the device, including its related
// user and brand snapshots and the image bytes.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	c := *d
	c.User = d.User.Clone()
	c.Brand = d.Brand.Clone()
	if d.Image != nil {
		c.Image = make([]byte, len(d.Image))
		copy(c.Image, d.Image)
	}
	return &c
}
