package geo

import (
	"math"
)

// Encode encodes a polyline using Google's polyline algorithm at the
// standard precision of 5 decimal places. This is the codec used for route
// geometry on the wire and in storage.
func Encode(pl Polyline) string {
	if len(pl) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(pl)*4)
	prevLat := 0
	prevLon := 0

	for _, p := range pl {
		lat := int(math.Round(p.Lat * 1e5))
		lon := int(math.Round(p.Lon * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

// Decode decodes a polyline-encoded string into a Polyline.
func Decode(encoded string) Polyline {
	if encoded == "" {
		return nil
	}

	var pl Polyline
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lat += latDelta

		lonDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lon += lonDelta

		pl = append(pl, Point{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return pl
}

// encodeValue encodes a single integer delta in 5-bit chunks.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// decodeValue decodes a single delta starting at index and returns the
// value and the new index position.
func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
