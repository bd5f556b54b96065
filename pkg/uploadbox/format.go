package uploadbox

import (
	"math"
	"strconv"
	"time"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with a 1024 base and at most two
// decimals, e.g. "1.5 KB". Sizes past GB stay in GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// dateLayouts are the timestamp shapes hosts are known to send.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDateTime renders a host timestamp as "2006-01-02 15:04:05" in
// local time. Unparseable or empty input gives "".
func FormatDateTime(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == time.RFC3339Nano {
				t = t.Local()
			}
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return ""
}

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', -1, 64) + "MB"
}
