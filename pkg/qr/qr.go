// Package qr renders product verification links as QR codes and decodes
// uploaded QR images back into verification targets.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// MaxDimension caps the width and height of an uploaded image. The limit
// is checked against the header before any pixels are allocated.
const MaxDimension = 4096

var (
	ErrUndecodable    = errors.New("image does not contain a readable QR code")
	ErrUnknownPayload = errors.New("QR code does not reference a verification target")
)

var (
	verifyPathPattern = regexp.MustCompile(`/verify/([a-z]+)/(\d+)/?$`)
	legacyPattern     = regexp.MustCompile(`^([a-z]+)_(\d+)_verification$`)
)

var encodePNG = qrcode.Encode

// Target is what a scanned code points at.
type Target struct {
	EntityType string
	EntityID   int64
}

// VerifyURL builds the public verification link for an entity.
func VerifyURL(baseURL, entityType string, id int64) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + entityType + "/" + strconv.FormatInt(id, 10)
}

// Encode renders content as a PNG of size x size pixels.
func Encode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := encodePNG(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Decode reads the text of the first QR code found in a PNG or JPEG image.
func Decode(data []byte) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return "", ErrUndecodable
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrUndecodable
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrUndecodable
	}
	hints := map[gozxing.DecodeHintType]interface{}{gozxing.DecodeHintType_TRY_HARDER: true}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", ErrUndecodable
	}
	return result.GetText(), nil
}

// ParsePayload accepts either a verify URL or the older
// "product_<id>_verification" form.
func ParsePayload(payload string) (Target, error) {
	payload = strings.TrimSpace(payload)

	if m := legacyPattern.FindStringSubmatch(payload); m != nil {
		return newTarget(m[1], m[2])
	}

	path := payload
	if u, err := url.Parse(payload); err == nil && u.Path != "" {
		path = u.Path
	}
	if m := verifyPathPattern.FindStringSubmatch(path); m != nil {
		return newTarget(m[1], m[2])
	}
	return Target{}, ErrUnknownPayload
}

func newTarget(entityType, rawID string) (Target, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return Target{}, ErrUnknownPayload
	}
	return Target{EntityType: entityType, EntityID: id}, nil
}
