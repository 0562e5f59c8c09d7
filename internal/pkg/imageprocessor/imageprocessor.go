package imageprocessor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

const thumbnailSize = 400
const thumbnailQuality = 85

// Thumbnail decodes the uploaded image and returns a JPEG thumbnail that
// fits within thumbnailSize on both axes.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractMetadata pulls camera metadata out of the image's EXIF block. A
// missing or unreadable block is not an error, the metadata is simply absent.
func ExtractMetadata(data []byte) json.RawMessage {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	meta := map[string]interface{}{}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			meta["camera_model"] = model
		}
	}
	if taken, err := x.DateTime(); err == nil {
		meta["taken_at"] = taken
	}
	if lat, lng, err := x.LatLong(); err == nil {
		meta["latitude"] = lat
		meta["longitude"] = lng
	}
	if len(meta) == 0 {
		return nil
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return raw
}
