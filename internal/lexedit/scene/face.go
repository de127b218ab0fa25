package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lexedit-backend/internal/models"
)

// FaceVersion is written into every serialized face.
const FaceVersion = 1

var ErrEmptyFace = errors.New("empty face document")

// FaceDocument is the serialized form of one face. The background is not
// part of it; faces are tied to their template id separately.
type FaceDocument struct {
	Version int                   `json:"version"`
	Objects []*models.SceneObject `json:"objects"`
}

// MarshalFace serializes the canvas objects in paint order.
func (c *Canvas) MarshalFace() (string, error) {
	doc := FaceDocument{Version: FaceVersion, Objects: c.objects}
	if doc.Objects == nil {
		doc.Objects = []*models.SceneObject{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal face: %w", err)
	}
	return string(b), nil
}

// LoadFace replaces the canvas objects with a serialized face. Neither the
// server nor history is involved.
func (c *Canvas) LoadFace(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyFace
	}
	var doc FaceDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("unmarshal face: %w", err)
	}

	c.objects = c.objects[:0]
	c.active = nil
	for _, o := range doc.Objects {
		if o == nil {
			continue
		}
		o.EnsureKey()
		o.SaveState()
		c.objects = append(c.objects, o)
	}
	c.Redraw(ctx)
	return nil
}

// Populate appends already-built objects without persisting or recording them.
func (c *Canvas) Populate(ctx context.Context, objs []*models.SceneObject) {
	for _, o := range objs {
		if c.Contains(o) {
			continue
		}
		o.EnsureKey()
		c.objects = append(c.objects, o)
	}
	c.Redraw(ctx)
}
