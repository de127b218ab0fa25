package scene

import (
	"sort"

	"github.com/google/uuid"

	"lexedit-backend/internal/models"
)

// PanelEntry is one row of the side panel.
type PanelEntry struct {
	Key          uuid.UUID           `json:"key"`
	ID           *int64              `json:"ID"`
	ObjectName   string              `json:"ObjectName"`
	ObjectType   int                 `json:"ObjectType"`
	ResourceType models.ResourceType `json:"ResourceType"`
	DisplayOrder int                 `json:"DisplayOrder"`
	Text         string              `json:"text,omitempty"`
	Selectable   bool                `json:"selectable"`
}

// SidePanel lists the canvas objects per resource type in display order.
type SidePanel struct {
	Groups map[models.ResourceType][]PanelEntry `json:"groups"`
}

func (c *Canvas) SidePanel() SidePanel {
	p := SidePanel{Groups: map[models.ResourceType][]PanelEntry{}}
	for _, o := range c.objects {
		e := PanelEntry{
			Key:          o.Key,
			ID:           o.ID,
			ObjectName:   o.ObjectName,
			ObjectType:   o.ObjectType,
			ResourceType: o.ResourceType,
			DisplayOrder: o.DisplayOrder,
			Selectable:   o.Selectable,
		}
		if o.Text != nil {
			e.Text = o.Text.Text
		}
		p.Groups[o.ResourceType] = append(p.Groups[o.ResourceType], e)
	}
	for rt := range p.Groups {
		g := p.Groups[rt]
		sort.SliceStable(g, func(i, j int) bool { return g[i].DisplayOrder < g[j].DisplayOrder })
	}
	return p
}

func sortStable(objs []*models.SceneObject, less func(a, b *models.SceneObject) bool) {
	sort.SliceStable(objs, func(i, j int) bool { return less(objs[i], objs[j]) })
}
