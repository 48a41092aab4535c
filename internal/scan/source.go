package scan

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Bounds is the bounding box the decoder reported for a detection, in frame
// pixel coordinates.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection is one decoded barcode from one camera frame.
type Detection struct {
	Code   string `json:"code"`
	Bounds Bounds `json:"bounds"`
}

// Source yields decoded barcode detections. Camera capture and image decoding
// live behind this interface; implementations return io.EOF when the feed
// ends.
type Source interface {
	Next(ctx context.Context) (Detection, error)
}

// LineSource reads one barcode per line, mirroring the original device's
// simulation mode. Useful for development without a camera.
type LineSource struct {
	scanner *bufio.Scanner
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

func (s *LineSource) Next(ctx context.Context) (Detection, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Detection{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Detection{}, err
			}
			return Detection{}, io.EOF
		}
		code := strings.TrimSpace(s.scanner.Text())
		if code == "" {
			continue
		}
		return Detection{Code: code}, nil
	}
}
