package models

import (
	"github.com/google/uuid"
)

// Variant names the payload a scene object carries.
type Variant string

const (
	VariantText   Variant = "textbox"
	VariantImage  Variant = "image"
	VariantShape  Variant = "shape"
	VariantCoupon Variant = "coupon"
)

// SceneObject is one drawable unit on a face.
type SceneObject struct {
	Key              uuid.UUID    `json:"key"`
	ID               *int64       `json:"ID"`
	ObjectName       string       `json:"ObjectName"`
	ObjectType       int          `json:"ObjectType"`
	ObjectGroup      string       `json:"ObjectGroup"`
	ResourceType     ResourceType `json:"ResourceType"`
	PageNumber       Face         `json:"PageNumber"`
	LinkedObject     int64        `json:"LinkedObject,omitempty"`
	DisplayOrder     int          `json:"DisplayOrder"`
	ZIndex           int          `json:"zIndex"`
	Left             float64      `json:"left"`
	Top              float64      `json:"top"`
	Width            float64      `json:"width"`
	Height           float64      `json:"height"`
	Angle            float64      `json:"angle"`
	ScaleX           float64      `json:"scaleX"`
	ScaleY           float64      `json:"scaleY"`
	Opacity          float64      `json:"opacity"`
	Selectable       bool         `json:"selectable"`
	Editable         bool         `json:"editable"`
	Visible          bool         `json:"visible"`
	SuppressPrinting bool         `json:"SuppressPrinting"`

	Text   *TextProps   `json:"textbox,omitempty"`
	Image  *ImageProps  `json:"image,omitempty"`
	Shape  *ShapeProps  `json:"shape,omitempty"`
	Coupon *CouponProps `json:"coupon,omitempty"`

	// baseline holds the state-property values as of the last committed edit.
	baseline State
}

// TextProps is the payload of text boxes (T, BT, FC and BC resources).
type TextProps struct {
	Text                string       `json:"text"`
	FontFamily          string       `json:"fontFamily"`
	FontSize            float64      `json:"fontSize"`
	FontWeight          string       `json:"fontWeight"`
	FontStyle           string       `json:"fontStyle"`
	TextDecoration      string       `json:"textDecoration"`
	Fill                string       `json:"fill"`
	TextBackgroundColor string       `json:"textBackgroundColor"`
	BackgroundColor     string       `json:"backgroundColor,omitempty"`
	Stroke              string       `json:"stroke"`
	StrokeWidth         float64      `json:"strokeWidth"`
	TextAlign           string       `json:"textAlign"`
	LineHeight          float64      `json:"lineHeight,omitempty"`
	AutoFontSize        bool         `json:"autoFontSize"`
	WordBreak           bool         `json:"WordBreak"`
	OrgFontSize         float64      `json:"orgFontSize"`
	OrgWidth            float64      `json:"orgWidth"`
	OrgHeight           float64      `json:"orgHeight"`
	MinHeight           float64      `json:"minHeight"`
	CouponID            int64        `json:"ProductID,omitempty"`
	Styles              []StyleRange `json:"styles,omitempty"`
}

// StyleRange is a per-character style override over [Start, End).
type StyleRange struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Style State `json:"style"`
}

// ImageProps is the payload of picture objects.
type ImageProps struct {
	Src           string  `json:"src"`
	Text          string  `json:"text"`
	ImgType       string  `json:"imgType"`
	ImageAlign    string  `json:"ImageAlign"`
	Scale         string  `json:"scale"`
	OrgLeft       float64 `json:"orgLeft"`
	OrgTop        float64 `json:"orgTop"`
	OrgWidth      float64 `json:"orgWidth"`
	OrgHeight     float64 `json:"orgHeight"`
	NaturalWidth  int     `json:"naturalWidth,omitempty"`
	NaturalHeight int     `json:"naturalHeight,omitempty"`
	Resolved      bool    `json:"resolved"`
}

// ShapeKind is the geometry of a shape object.
type ShapeKind string

const (
	ShapeLine   ShapeKind = "line"
	ShapeCircle ShapeKind = "circle"
	ShapeRect   ShapeKind = "rect"
)

// ShapeProps is the payload of lines, circles and rectangles.
type ShapeProps struct {
	Kind        ShapeKind `json:"kind"`
	Fill        string    `json:"fill"`
	Stroke      string    `json:"stroke"`
	StrokeWidth float64   `json:"strokeWidth"`
	Radius      float64   `json:"radius"`
}

// CouponProps is the payload of coupon images.
type CouponProps struct {
	Code          string  `json:"code"`
	Size          string  `json:"size"`
	Src           string  `json:"src"`
	Text          string  `json:"text"`
	ImageAlign    string  `json:"ImageAlign"`
	OrgWidth      float64 `json:"orgWidth"`
	OrgHeight     float64 `json:"orgHeight"`
	NaturalWidth  int     `json:"naturalWidth,omitempty"`
	NaturalHeight int     `json:"naturalHeight,omitempty"`
	Resolved      bool    `json:"resolved"`
}

// NewSceneObject returns an object with a fresh key and neutral transform.
func NewSceneObject() *SceneObject {
	return &SceneObject{
		Key:        uuid.New(),
		ScaleX:     1,
		ScaleY:     1,
		Opacity:    1,
		Selectable: true,
		Visible:    true,
	}
}

// Variant reports which payload the object carries.
func (o *SceneObject) Variant() Variant {
	switch {
	case o.Text != nil:
		return VariantText
	case o.Image != nil:
		return VariantImage
	case o.Shape != nil:
		return VariantShape
	case o.Coupon != nil:
		return VariantCoupon
	}
	return ""
}

// Persisted reports whether the server has assigned an id.
func (o *SceneObject) Persisted() bool {
	return o.ID != nil
}

// ServerID returns the server id or 0 when the object was never saved.
func (o *SceneObject) ServerID() int64 {
	if o.ID == nil {
		return 0
	}
	return *o.ID
}

// SetServerID records the id assigned by the backend.
func (o *SceneObject) SetServerID(id int64) {
	o.ID = &id
}

// EnsureKey assigns a key to objects decoded without one.
func (o *SceneObject) EnsureKey() {
	if o.Key == uuid.Nil {
		o.Key = uuid.New()
	}
}

// Clone deep-copies the object. The copy keeps the key; callers that need a
// distinct object assign a new one.
func (o *SceneObject) Clone() *SceneObject {
	c := *o
	if o.ID != nil {
		id := *o.ID
		c.ID = &id
	}
	if o.Text != nil {
		t := *o.Text
		t.Styles = copyStyles(o.Text.Styles)
		c.Text = &t
	}
	if o.Image != nil {
		i := *o.Image
		c.Image = &i
	}
	if o.Shape != nil {
		s := *o.Shape
		c.Shape = &s
	}
	if o.Coupon != nil {
		cp := *o.Coupon
		c.Coupon = &cp
	}
	c.baseline = o.baseline.Copy()
	return &c
}

// SaveState records the current values of the object's state properties as
// the baseline the next edit is measured against.
func (o *SceneObject) SaveState() {
	o.baseline = o.Snapshot()
}

// Baseline returns the values recorded by the last SaveState. An object that
// never saved state reports its current values.
func (o *SceneObject) Baseline() State {
	if o.baseline == nil {
		return o.Snapshot()
	}
	return o.baseline.Copy()
}

// Snapshot copies the current values of the object's state properties.
func (o *SceneObject) Snapshot() State {
	props := StateProperties(o.Variant())
	s := make(State, len(props))
	for _, p := range props {
		if v, ok := o.Get(p); ok {
			s[p] = v
		}
	}
	return s
}

// SupportsStyleRanges reports whether style properties must go through the
// per-character style API.
func (o *SceneObject) SupportsStyleRanges() bool {
	return o.Text != nil && len(o.Text.Styles) > 0
}

// SetActiveStyle applies a style property to the whole object, rewriting any
// per-character ranges so the value is uniform.
func (o *SceneObject) SetActiveStyle(p Property, v any) bool {
	if !o.Set(p, v) {
		return false
	}
	if o.SupportsStyleRanges() {
		for i := range o.Text.Styles {
			if o.Text.Styles[i].Style == nil {
				o.Text.Styles[i].Style = State{}
			}
			o.Text.Styles[i].Style[p] = v
		}
	}
	return true
}

// ApplyState writes s back onto the object. Style properties are routed
// through SetActiveStyle, geometry is set directly.
func (o *SceneObject) ApplyState(s State) {
	for _, p := range StateProperties(o.Variant()) {
		v, ok := s[p]
		if !ok {
			continue
		}
		if p.IsStyle() {
			o.SetActiveStyle(p, v)
		} else {
			o.Set(p, v)
		}
	}
}
