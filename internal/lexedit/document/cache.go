package document

import (
	"lexedit-backend/internal/models"
)

// FaceSlot is the last serialized state of a face.
type FaceSlot struct {
	JSON       string `json:"json"`
	TemplateID int64  `json:"templateId"`
}

// FaceCache holds one slot per face.
type FaceCache struct {
	slots map[models.Face]FaceSlot
}

func NewFaceCache() *FaceCache {
	return &FaceCache{slots: map[models.Face]FaceSlot{}}
}

func (c *FaceCache) Set(f models.Face, json string, templateID int64) {
	c.slots[f] = FaceSlot{JSON: json, TemplateID: templateID}
}

// Get returns the slot of f. The second result is false when the face has
// never been serialized.
func (c *FaceCache) Get(f models.Face) (FaceSlot, bool) {
	s, ok := c.slots[f]
	return s, ok && s.JSON != ""
}

// JSON returns the cached face, or "" when there is none.
func (c *FaceCache) JSON(f models.Face) string {
	return c.slots[f].JSON
}

// Snapshot copies every slot.
func (c *FaceCache) Snapshot() map[models.Face]FaceSlot {
	out := make(map[models.Face]FaceSlot, len(c.slots))
	for k, v := range c.slots {
		out[k] = v
	}
	return out
}
