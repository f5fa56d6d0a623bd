package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cloudinary accepts at most this many public IDs per delete call.
const deleteBatchSize = 100

type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Storage is the CDN the API uploads to and purges from.
type Storage interface {
	Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error)
	Delete(ctx context.Context, publicIDs []string) error
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewFromURL(url string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// StoreFolder is where a store's assets live. Public IDs of its assets start
// with StoreFolder + "/".
func StoreFolder(storeID uuid.UUID) string {
	return "stores/" + storeID.String()
}

func StorePrefix(storeID uuid.UUID) string {
	return StoreFolder(storeID) + "/"
}

// PublicIDFromURL returns the public ID encoded in a Cloudinary delivery URL,
// or "" when the URL has no upload segment.
func PublicIDFromURL(url string) string {
	parts := strings.Split(url, "/")

	uploadIndex := -1
	for i, part := range parts {
		if part == "upload" {
			uploadIndex = i
			break
		}
	}
	if uploadIndex == -1 || uploadIndex >= len(parts)-1 {
		return ""
	}

	rest := parts[uploadIndex+1:]
	// Skip the version segment, e.g. "v1740815725".
	if len(rest) > 1 && isVersion(rest[0]) {
		rest = rest[1:]
	}

	id := strings.Join(rest, "/")
	return strings.TrimSuffix(id, path.Ext(id))
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MatchesURL reports whether url points at the asset with publicID.
func MatchesURL(url, publicID string) bool {
	return PublicIDFromURL(url) == publicID
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder string) (*Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:    folder,
		PublicID:  uuid.NewString(),
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return &Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicIDs []string) error {
	var errs []error
	for _, chunk := range Chunk(publicIDs, deleteBatchSize) {
		resp, err := c.cld.Admin.DeleteAssets(ctx, admin.DeleteAssetsParams{
			PublicIDs: chunk,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("cloudinary delete: %w", err))
			continue
		}
		if resp.Error.Message != "" {
			errs = append(errs, fmt.Errorf("cloudinary delete: %s", resp.Error.Message))
		}
	}
	return errors.Join(errs...)
}

// Purge deletes publicIDs in the background so request latency does not
// depend on the CDN. Failures are only logged.
func Purge(s Storage, logger *zap.SugaredLogger, publicIDs []string) {
	if s == nil || len(publicIDs) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Delete(ctx, publicIDs); err != nil {
			logger.Warnw("media purge failed", "public_ids", publicIDs, "error", err)
			return
		}
		logger.Infow("media purged", "count", len(publicIDs))
	}()
}

// Chunk splits ids into slices of at most size elements.
func Chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
