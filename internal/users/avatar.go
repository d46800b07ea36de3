package users

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/disintegration/imaging"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

const (
	// MaxAvatarBytes bounds the size of an uploaded avatar file.
	MaxAvatarBytes = 1_000_000
	// AvatarSize is the edge length of every stored avatar.
	AvatarSize = 250
)

var avatarExt = regexp.MustCompile(`(?i)\.(png|jpe?g)$`)

var (
	ErrAvatarFormat   = fmt.Errorf("%w: avatar must be a png, jpg or jpeg file", shared.ErrInvalidFileType)
	ErrAvatarTooLarge = fmt.Errorf("%w: avatar exceeds %d bytes", shared.ErrInvalidFileType, MaxAvatarBytes)
)

// CheckAvatarUpload rejects a file by name and size before anything decodes it.
func CheckAvatarUpload(filename string, size int64) error {
	if !avatarExt.MatchString(filename) {
		return ErrAvatarFormat
	}
	if size > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	return nil
}

// NormalizeAvatar decodes data, crops it to a centered AvatarSize square and
// re-encodes it as PNG.
func NormalizeAvatar(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("users: decode avatar: %w", err)
	}
	square := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, square, imaging.PNG); err != nil {
		return nil, fmt.Errorf("users: encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
