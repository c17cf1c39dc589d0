package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// MaxPayloadPreview is how many bytes of a payload attribute are logged.
const MaxPayloadPreview = 64

var payloadKeys = []string{"payload", "value", "frame", "args"}

// truncatePayload shortens string and []byte values of payload attributes.
func truncatePayload(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = truncatePayload(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if !IsPayloadKey(a.Key) {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Preview(a.Value.String()))
	case slog.KindAny:
		if b, ok := a.Value.Any().([]byte); ok {
			return slog.String(a.Key, Preview(string(b)))
		}
	}
	return a
}

// IsPayloadKey reports whether attributes named key are truncated.
func IsPayloadKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range payloadKeys {
		if key == k {
			return true
		}
	}
	return false
}

// Preview quotes s and cuts it to MaxPayloadPreview bytes, noting the
// full length when it was cut.
func Preview(s string) string {
	if len(s) <= MaxPayloadPreview {
		return strconv.Quote(s)
	}
	return strconv.Quote(s[:MaxPayloadPreview]) + "...(" + strconv.Itoa(len(s)) + " bytes)"
}
