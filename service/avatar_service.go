package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
)

const (
	// MaxAvatarSize is the upload limit for avatar images.
	MaxAvatarSize = 5 << 20
	// MaxAvatarWidth is the width larger decodable avatars are scaled down to.
	MaxAvatarWidth = 1024

	avatarPrefix = "avatars"
)

var avatarEncoders = map[string]func(io.Writer, image.Image) error{
	"jpeg": func(w io.Writer, i image.Image) error { return jpeg.Encode(w, i, nil) },
	"png":  png.Encode,
	"gif":  func(w io.Writer, i image.Image) error { return gif.Encode(w, i, nil) },
	"tiff": func(w io.Writer, i image.Image) error { return tiff.Encode(w, i, nil) },
	"bmp":  bmp.Encode,
}

// AvatarService uploads profile pictures to the object store.
type AvatarService struct {
	objects ports.ObjectStore
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewAvatarService(objects ports.ObjectStore, log *zap.SugaredLogger) *AvatarService {
	return &AvatarService{objects: objects, log: log, now: time.Now}
}

// Upload stores an avatar for address and returns its public URL. Files over
// MaxAvatarSize fail with core.ErrAvatarTooLarge and non-image content types with
// core.ErrAvatarType. Decodable images wider than MaxAvatarWidth are scaled down.
func (s *AvatarService) Upload(ctx context.Context, address, filename, contentType string, data []byte) (string, error) {
	if len(data) > MaxAvatarSize {
		return "", core.ErrAvatarTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", core.ErrAvatarType
	}
	if address == "" {
		return "", fmt.Errorf("%w: wallet address is required", core.ErrInvalidInput)
	}

	data, err := s.downscale(data)
	if err != nil {
		s.log.Warnw("failed to downscale avatar, storing original", "address", address, "err", err)
	}

	key := path.Join(avatarPrefix, fmt.Sprintf("%s-%d.%s", strings.ToLower(address), s.now().UnixMilli(), avatarExt(filename, contentType)))
	if err := s.objects.Put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	s.log.Infow("avatar uploaded", "address", address, "key", key, "size", len(data))
	return s.objects.PublicURL(key), nil
}

// Delete removes the avatar behind a URL returned by Upload.
func (s *AvatarService) Delete(ctx context.Context, url string) error {
	key, err := s.objects.KeyFromURL(url)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(key, avatarPrefix+"/") {
		return fmt.Errorf("%w: not an avatar url", core.ErrInvalidInput)
	}
	return s.objects.Delete(ctx, key)
}

// downscale returns data unchanged when the image is narrow enough or cannot be
// decoded and re-encoded in its own format.
func (s *AvatarService) downscale(data []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= MaxAvatarWidth {
		return data, nil
	}
	encode, ok := avatarEncoders[format]
	if !ok {
		return data, nil
	}

	original, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, fmt.Errorf("decode image: %w", err)
	}

	ratio := float64(MaxAvatarWidth) / float64(original.Bounds().Dx())
	height := max(int(float64(original.Bounds().Dy())*ratio), 1)

	bitmap := image.NewRGBA(image.Rect(0, 0, MaxAvatarWidth, height))
	draw.CatmullRom.Scale(bitmap, bitmap.Bounds(), original, original.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := encode(&buf, bitmap); err != nil {
		return data, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func avatarExt(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); isToken(ext) {
		return ext
	}
	sub := strings.TrimPrefix(contentType, "image/")
	if i := strings.IndexAny(sub, "+;"); i >= 0 {
		sub = sub[:i]
	}
	if sub = strings.ToLower(strings.TrimSpace(sub)); isToken(sub) {
		return sub
	}
	return "img"
}

func isToken(s string) bool {
	if s == "" || len(s) > 8 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
