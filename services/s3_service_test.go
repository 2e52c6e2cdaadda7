package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvatarObjectKeyIsNamespacedPerUser(t *testing.T) {
	key := avatarObjectKey("u1")
	assert.True(t, strings.HasPrefix(key, "avatars/u1/"))
	assert.NotEqual(t, key, avatarObjectKey("u1"), "each upload gets a fresh key")
}

func TestAvatarURLTTLComesFromEnv(t *testing.T) {
	t.Setenv("AVATAR_URL_TTL_SECONDS", "90")
	assert.Equal(t, 90*time.Second, avatarURLTTL())

	t.Setenv("AVATAR_URL_TTL_SECONDS", "not-a-number")
	assert.Equal(t, DefaultAvatarURLTTL, avatarURLTTL())
}
