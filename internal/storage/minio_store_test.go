package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worksphere/internal/storage"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.worksphere.io/photos/users/uid-1/avatar.png",
		storage.ObjectURL("https://cdn.worksphere.io/", "photos", "/users/uid-1/avatar.png"),
	)
}
