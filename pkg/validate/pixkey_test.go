package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCPF(t *testing.T) {
	assert.True(t, IsCPF("52998224725"))
	assert.True(t, IsCPF("11144477735"))
	assert.False(t, IsCPF("52998224724"))
	assert.False(t, IsCPF("11111111111"))
	assert.False(t, IsCPF("529.982.247-25"))
	assert.False(t, IsCPF("5299822472"))
	assert.False(t, IsCPF(""))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("maria@example.com"))
	assert.False(t, IsEmail("maria@example"))
	assert.False(t, IsEmail("maria"))
	assert.False(t, IsEmail(""))
}

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("+5511987654321"))
	assert.True(t, IsPhone("11987654321"))
	assert.False(t, IsPhone("123"))
	assert.False(t, IsPhone("phone"))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("b71f6bc6-6fc0-4b0e-a0c5-c24f42d4bc18"))
	assert.False(t, IsUUID("not-a-uuid"))
}
