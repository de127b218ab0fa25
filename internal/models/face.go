package models

import (
	"fmt"
	"strings"
)

// Face is one printable side of the product.
type Face int

const (
	FaceNone     Face = 0
	FaceFront    Face = 1
	FaceBack     Face = 2
	FaceInside   Face = 3
	FaceEnvelope Face = 4
)

// Faces lists every face in page-number order.
var Faces = []Face{FaceFront, FaceBack, FaceInside, FaceEnvelope}

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceInside:
		return "inside"
	case FaceEnvelope:
		return "envelope"
	}
	return "none"
}

// Valid reports whether f names a real face.
func (f Face) Valid() bool {
	return f >= FaceFront && f <= FaceEnvelope
}

// CacheKey is the recovery-store key holding the face JSON, e.g. "frontJSON".
func (f Face) CacheKey() string {
	return f.String() + "JSON"
}

// ParseFace accepts a face name ("Back", "inside") or a page number ("2").
func ParseFace(s string) (Face, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "1":
		return FaceFront, nil
	case "back", "2":
		return FaceBack, nil
	case "inside", "3":
		return FaceInside, nil
	case "envelope", "4":
		return FaceEnvelope, nil
	}
	return FaceNone, fmt.Errorf("unknown face: %q", s)
}
