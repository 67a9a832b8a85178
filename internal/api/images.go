package api

import (
	"context"
	"log"
	"time"

	"github.com/pageza/recetario/config"
)

// PresignExpiry is how long resolved image URLs stay valid.
const PresignExpiry = 15 * time.Minute

// ImageResolver turns a stored image reference into a URL a browser can load.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) string
}

// PassThrough returns references unchanged.
type PassThrough struct{}

func (PassThrough) Resolve(_ context.Context, ref string) string { return ref }

// S3Images presigns s3:// references and passes everything else through.
type S3Images struct {
	S3 *config.S3Config
}

func (s S3Images) Resolve(ctx context.Context, ref string) string {
	key, ok := s.S3.ObjectKey(ref)
	if !ok {
		return ref
	}
	url, err := s.S3.GeneratePresignedURL(ctx, key, PresignExpiry)
	if err != nil {
		log.Printf("Failed to presign image %s: %v", key, err)
		return ""
	}
	return url
}
