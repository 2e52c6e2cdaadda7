package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, PairKey("u1", "u2"), PairKey("u2", "u1"))
	assert.Equal(t, "u1#u2", PairKey("u2", "u1"))
}

func TestPairKeyDistinguishesPairs(t *testing.T) {
	assert.NotEqual(t, PairKey("u1", "u2"), PairKey("u1", "u3"))
}
