package products

import "strings"

// StaleImages returns the media public IDs that should be removed from the
// CDN after the product's images were replaced with incoming: every persisted
// image and every explicitly deleted one, minus those still in use. Deleted
// images are only honoured under folderPrefix so a caller cannot purge assets
// it does not own.
func StaleImages(persisted []*Image, incoming, deleted []ImageInput, folderPrefix string) []string {
	inUse := make(map[string]struct{}, len(incoming))
	for _, img := range incoming {
		inUse[img.PublicID] = struct{}{}
	}

	seen := make(map[string]struct{})
	out := []string{}
	add := func(publicID string) {
		if publicID == "" {
			return
		}
		if _, ok := inUse[publicID]; ok {
			return
		}
		if _, ok := seen[publicID]; ok {
			return
		}
		seen[publicID] = struct{}{}
		out = append(out, publicID)
	}

	for _, img := range persisted {
		add(img.PublicID)
	}
	for _, img := range deleted {
		if folderPrefix != "" && !strings.HasPrefix(img.PublicID, folderPrefix) {
			continue
		}
		add(img.PublicID)
	}
	return out
}

// ImagePublicIDs lists the public IDs of imgs in order.
func ImagePublicIDs(imgs []*Image) []string {
	out := make([]string, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, img.PublicID)
	}
	return out
}
