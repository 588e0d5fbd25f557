package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntParam(t *testing.T) {
	assert.Equal(t, 3, IntParam("3"))
	assert.Equal(t, -2, IntParam("-2"))
	assert.Equal(t, 0, IntParam(""))
	assert.Equal(t, 0, IntParam("two"))
	assert.Equal(t, 0, IntParam("3.5"))
}
