package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternIdentity(t *testing.T) {
	a := Intern("foo")
	b := Intern("foo")
	assert.True(t, Eq(a, b))
	assert.NotSame(t, a, b) // distinct wrappers, same underlying symbol

	c := Intern("bar")
	assert.False(t, Eq(a, c))
}

func TestStringsNotEqByIdentity(t *testing.T) {
	a := Str("hi")
	b := Str("hi")
	assert.False(t, Eq(a, b))
	assert.True(t, Eq(a, a))
}

func TestBool(t *testing.T) {
	assert.True(t, Eq(Bool(true), True()))
	assert.True(t, Eq(Bool(false), False()))
}
