package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_IsZero(t *testing.T) {
	var f Fingerprint
	assert.True(t, f.IsZero())

	f[0] = 1
	assert.False(t, f.IsZero())
}

func TestFingerprint_StringIsLowercaseHex(t *testing.T) {
	f := NewFingerprintBuilder().WriteString("align").Sum()
	s := f.String()
	assert.Len(t, s, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", s)
}

func TestFingerprintBuilder_DeterministicForSameInput(t *testing.T) {
	a := NewFingerprintBuilder().WriteKV("sample", "a").WriteString("script body").Sum()
	b := NewFingerprintBuilder().WriteKV("sample", "a").WriteString("script body").Sum()
	assert.Equal(t, a, b)
}

func TestFingerprintBuilder_DiffersOnDifferentInput(t *testing.T) {
	a := NewFingerprintBuilder().WriteKV("sample", "a").Sum()
	b := NewFingerprintBuilder().WriteKV("sample", "b").Sum()
	assert.NotEqual(t, a, b)
}

func TestFingerprintBuilder_WriteBagIsOrderIndependent(t *testing.T) {
	a := NewFingerprintBuilder().WriteBag([]string{"one", "two", "three"}).Sum()
	b := NewFingerprintBuilder().WriteBag([]string{"three", "one", "two"}).Sum()
	assert.Equal(t, a, b)
}

func TestFingerprintBuilder_WriteBagDiffersOnMembership(t *testing.T) {
	a := NewFingerprintBuilder().WriteBag([]string{"one", "two"}).Sum()
	b := NewFingerprintBuilder().WriteBag([]string{"one", "two", "three"}).Sum()
	assert.NotEqual(t, a, b)
}

func TestRehash_DiffersFromOriginalAndAcrossTries(t *testing.T) {
	base := NewFingerprintBuilder().WriteString("align").Sum()
	r1 := Rehash(base, 1)
	r2 := Rehash(base, 2)

	assert.NotEqual(t, base, r1)
	assert.NotEqual(t, base, r2)
	assert.NotEqual(t, r1, r2)
}

func TestRehash_DeterministicForSameTry(t *testing.T) {
	base := NewFingerprintBuilder().WriteString("align").Sum()
	assert.Equal(t, Rehash(base, 3), Rehash(base, 3))
}
