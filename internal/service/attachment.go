package service

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

const octetStream = "application/octet-stream"

// normalizeAttachment returns a copy of a with ContentType filled in when it
// was left empty. A data: URI supplies its own media type; a base64 payload
// is sniffed.
func normalizeAttachment(a *domain.Attachment) *domain.Attachment {
	if a == nil {
		return nil
	}
	out := *a
	if out.ContentType != "" {
		return &out
	}
	if mediaType, ok := dataURIMediaType(out.Data); ok {
		out.ContentType = mediaType
		return &out
	}
	raw, err := base64.StdEncoding.DecodeString(out.Data)
	if err != nil {
		out.ContentType = octetStream
		return &out
	}
	out.ContentType = mimetype.Detect(raw).String()
	return &out
}

// dataURIMediaType extracts the media type from "data:<type>[;params],...".
func dataURIMediaType(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", false
	}
	header, _, ok := strings.Cut(rest, ",")
	if !ok {
		return "", false
	}
	mediaType, _, _ := strings.Cut(header, ";")
	if mediaType == "" {
		return "text/plain", true
	}
	return mediaType, true
}
