package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleImages(t *testing.T) {
	persisted := []*Image{
		{PublicID: "stores/s1/a"},
		{PublicID: "stores/s1/b"},
	}
	incoming := []ImageInput{
		{URL: "https://cdn/a", PublicID: "stores/s1/a"},
		{URL: "https://cdn/c", PublicID: "stores/s1/c"},
	}
	deleted := []ImageInput{
		{PublicID: "stores/s1/b"},
		{PublicID: "stores/s1/d"},
		{PublicID: "stores/s1/c"},
		{PublicID: "stores/other/e"},
	}

	got := StaleImages(persisted, incoming, deleted, "stores/s1/")
	assert.Equal(t, []string{"stores/s1/b", "stores/s1/d"}, got)
}

func TestStaleImages_KeepsEverythingStillInUse(t *testing.T) {
	persisted := []*Image{{PublicID: "x"}, {PublicID: "y"}}
	incoming := []ImageInput{{PublicID: "y"}, {PublicID: "x"}}

	assert.Empty(t, StaleImages(persisted, incoming, nil, ""))
}

func TestImagePublicIDs(t *testing.T) {
	assert.Equal(t, []string{"p1", "p2"}, ImagePublicIDs([]*Image{{PublicID: "p1"}, {PublicID: "p2"}}))
	assert.Empty(t, ImagePublicIDs(nil))
}
