package cardscan

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// GeoPoint is a coordinate recovered from a photo's EXIF GPS tags. Used to
// prefill the lead's location when the card was photographed on site.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// photoLocation extracts the GPS position from image bytes. Returns nil when
// the image carries no usable EXIF data; that is the common case and not an
// error worth surfacing.
func photoLocation(imageData []byte) *GeoPoint {
	meta, err := exif.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil
	}

	lat, lng, err := meta.LatLong()
	if err != nil {
		return nil
	}

	return &GeoPoint{Lat: lat, Lng: lng}
}
