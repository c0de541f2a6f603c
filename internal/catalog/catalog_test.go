package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPod20Registered(t *testing.T) {
	d, ok := FindByIdentity(0x0000, 0x0300)
	require.True(t, ok)
	assert.Equal(t, "POD 2.0", d.Name)
	assert.Equal(t, 71, d.ProgramSize)
	assert.Equal(t, 71*36, d.AllProgramsSize)
	assert.Equal(t, uint8(0x01), d.PodID)
}

func TestFindByName(t *testing.T) {
	d, ok := FindByName("POD 2.0")
	require.True(t, ok)
	assert.NotEmpty(t, d.Controls)

	_, ok = FindByName("does not exist")
	assert.False(t, ok)
}

func TestFindByIdentityUnknown(t *testing.T) {
	_, ok := FindByIdentity(0xffff, 0xffff)
	assert.False(t, ok)
}

func TestPod20Validates(t *testing.T) {
	d, ok := FindByName("POD 2.0")
	require.True(t, ok)
	assert.NoError(t, d.Validate())
}

func TestControlByCC(t *testing.T) {
	d, _ := FindByName("POD 2.0")

	name, desc, ok := d.ControlByCC(13)
	require.True(t, ok)
	assert.Equal(t, "drive", name)
	assert.Equal(t, Range, desc.Kind)

	_, _, ok = d.ControlByCC(200)
	assert.False(t, ok)
}

func TestDomains(t *testing.T) {
	sw := ControlDescriptor{Kind: Switch}
	assert.Equal(t, uint16(1), sw.Domain())
	assert.True(t, sw.InDomain(0))
	assert.True(t, sw.InDomain(1))
	assert.False(t, sw.InDomain(2))

	rng := ControlDescriptor{Kind: Range, From: 0, To: 63}
	assert.Equal(t, uint16(63), rng.Domain())
	assert.True(t, rng.InDomain(63))
	assert.False(t, rng.InDomain(64))

	sel := ControlDescriptor{Kind: Select}
	assert.Equal(t, uint16(127), sel.Domain())
}

func TestScale(t *testing.T) {
	sw := ControlDescriptor{Kind: Switch}
	assert.Equal(t, uint16(64), sw.Scale())

	rng := ControlDescriptor{Kind: Range, From: 0, To: 63}
	assert.Equal(t, uint16(2), rng.Scale())

	sel := ControlDescriptor{Kind: Select}
	assert.Equal(t, uint16(1), sel.Scale())
}

func TestAllDescriptorsValidate(t *testing.T) {
	for _, d := range All() {
		assert.NoError(t, d.Validate(), "descriptor %s", d.Name)
	}
}
