// Package photo turns the photo references submitted with an incident
// (inline image data, stored paths, share links) into stored images with a
// stable URL.
package photo

import (
	"encoding/base64"
	"net/url"
	"strings"

	"tollgate/models"
)

// Kind classifies a photo descriptor.
type Kind int

const (
	KindNone Kind = iota
	KindInline
	KindLocal
	KindDrive
	KindRemote
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInline:
		return "inline"
	case KindLocal:
		return "local"
	case KindDrive:
		return "drive"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// LocalPrefixes are the URL paths served from the public directory.
var LocalPrefixes = []string{"/uploads/", "/reports/"}

// Source is a parsed photo descriptor. For inline sources Value holds the
// base64 payload, for local sources the URL path, for drive sources the
// direct-download URL and for remote sources the URL itself.
type Source struct {
	Kind  Kind
	Value string
}

// ParseSource classifies a descriptor. Blank and "-" mean no photo.
func ParseSource(descriptor string) Source {
	d := strings.TrimSpace(descriptor)
	if d == "" || d == models.NoneMarker {
		return Source{Kind: KindNone}
	}

	if strings.HasPrefix(d, "data:") {
		if i := strings.Index(d, ","); i >= 0 && strings.Contains(d[:i], ";base64") {
			return Source{Kind: KindInline, Value: d[i+1:]}
		}
		return Source{Kind: KindUnknown, Value: d}
	}

	for _, prefix := range LocalPrefixes {
		if strings.HasPrefix(d, prefix) {
			return Source{Kind: KindLocal, Value: d}
		}
	}

	if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
		if strings.Contains(d, "drive.google.com") {
			if id := DriveFileID(d); id != "" {
				return Source{Kind: KindDrive, Value: DriveDownloadURL(id)}
			}
		}
		return Source{Kind: KindRemote, Value: d}
	}

	if looksLikeBase64(d) {
		return Source{Kind: KindInline, Value: d}
	}
	return Source{Kind: KindUnknown, Value: d}
}

// DriveFileID extracts the file id from a Drive share link, either the
// id= query parameter or the /d/<id>/ path segment.
func DriveFileID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	parts := strings.Split(u.Path, "/")
	for i, p := range parts {
		if p == "d" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// DriveDownloadURL is the direct-download form of a Drive file.
func DriveDownloadURL(id string) string {
	return "https://drive.google.com/uc?export=download&id=" + url.QueryEscape(id)
}

// DriveViewURL is the link-shareable view form of a Drive file.
func DriveViewURL(id string) string {
	return "https://drive.google.com/uc?export=view&id=" + url.QueryEscape(id)
}

func looksLikeBase64(s string) bool {
	if len(s) < 16 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
