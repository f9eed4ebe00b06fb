package capture

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

func EncodeDataURI(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PhotoFilename names a customer photo after the capture time, e.g. customer_photo_1700000000000.jpg.
func PhotoFilename(t time.Time) string {
	return fmt.Sprintf("customer_photo_%d.jpg", t.UnixMilli())
}
