package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jordan Doe", (&User{FirstName: "Jordan", LastName: "Doe"}).FullName())
	assert.Equal(t, "Jordan", (&User{FirstName: "Jordan"}).FullName())
	assert.Equal(t, "Anonymous", (&User{}).FullName())
}
