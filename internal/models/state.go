package models

import (
	"encoding/json"
	"strconv"
)

// Property names an attribute of a scene object that edits can change.
type Property string

const (
	PropLeft                Property = "left"
	PropTop                 Property = "top"
	PropWidth               Property = "width"
	PropHeight              Property = "height"
	PropAngle               Property = "angle"
	PropScaleX              Property = "scaleX"
	PropScaleY              Property = "scaleY"
	PropOpacity             Property = "opacity"
	PropText                Property = "text"
	PropFontFamily          Property = "fontFamily"
	PropFontSize            Property = "fontSize"
	PropFontWeight          Property = "fontWeight"
	PropFontStyle           Property = "fontStyle"
	PropTextDecoration      Property = "textDecoration"
	PropFill                Property = "fill"
	PropTextBackgroundColor Property = "textBackgroundColor"
	PropStroke              Property = "stroke"
	PropStrokeWidth         Property = "strokeWidth"
	PropTextAlign           Property = "textAlign"
	PropVisible             Property = "visible"
	PropStyles              Property = "styles"
)

var styleProperties = map[Property]bool{
	PropFontStyle:           true,
	PropFontWeight:          true,
	PropTextDecoration:      true,
	PropStrokeWidth:         true,
	PropOpacity:             true,
	PropFontFamily:          true,
	PropFontSize:            true,
	PropFill:                true,
	PropTextBackgroundColor: true,
	PropStroke:              true,
	PropScaleX:              true,
}

// IsStyle reports whether p is a style-category property.
func (p Property) IsStyle() bool {
	return styleProperties[p]
}

var geometry = []Property{PropLeft, PropTop, PropWidth, PropHeight, PropAngle, PropScaleX, PropScaleY}

// IsGeometry reports whether p changes where an object sits on the face.
func (p Property) IsGeometry() bool {
	for _, g := range geometry {
		if g == p {
			return true
		}
	}
	return false
}

var stateTable = map[Variant][]Property{
	VariantText: append(append([]Property{}, geometry...),
		PropFontStyle, PropFontWeight, PropTextDecoration, PropFontFamily, PropFontSize,
		PropFill, PropTextBackgroundColor, PropStroke, PropStrokeWidth, PropOpacity, PropText,
		// Last, so ApplyState restores per-character ranges after the
		// whole-object style values have been written through them.
		PropStyles),
	VariantShape:  append(append([]Property{}, geometry...), PropFill, PropStroke, PropStrokeWidth, PropOpacity),
	VariantImage:  append(append([]Property{}, geometry...), PropOpacity),
	VariantCoupon: append(append([]Property{}, geometry...), PropOpacity),
}

// StateProperties returns the properties undo/redo snapshots for a variant.
// Objects without a payload only track geometry.
func StateProperties(v Variant) []Property {
	if props, ok := stateTable[v]; ok {
		return props
	}
	return geometry
}

// State is a snapshot of property values.
type State map[Property]any

// Copy returns an independent copy of s.
func (s State) Copy() State {
	if s == nil {
		return nil
	}
	c := make(State, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Get reads a property. The second result is false when the object's
// variant does not carry it.
func (o *SceneObject) Get(p Property) (any, bool) {
	switch p {
	case PropLeft:
		return o.Left, true
	case PropTop:
		return o.Top, true
	case PropWidth:
		return o.Width, true
	case PropHeight:
		return o.Height, true
	case PropAngle:
		return o.Angle, true
	case PropScaleX:
		return o.ScaleX, true
	case PropScaleY:
		return o.ScaleY, true
	case PropOpacity:
		return o.Opacity, true
	case PropVisible:
		return o.Visible, true
	}

	if t := o.Text; t != nil {
		switch p {
		case PropText:
			return t.Text, true
		case PropFontFamily:
			return t.FontFamily, true
		case PropFontSize:
			return t.FontSize, true
		case PropFontWeight:
			return t.FontWeight, true
		case PropFontStyle:
			return t.FontStyle, true
		case PropTextDecoration:
			return t.TextDecoration, true
		case PropFill:
			return t.Fill, true
		case PropTextBackgroundColor:
			return t.TextBackgroundColor, true
		case PropStroke:
			return t.Stroke, true
		case PropStrokeWidth:
			return t.StrokeWidth, true
		case PropTextAlign:
			return t.TextAlign, true
		case PropStyles:
			return copyStyles(t.Styles), true
		}
	}

	if s := o.Shape; s != nil {
		switch p {
		case PropFill:
			return s.Fill, true
		case PropStroke:
			return s.Stroke, true
		case PropStrokeWidth:
			return s.StrokeWidth, true
		}
	}

	return nil, false
}

// Set writes a property, converting JSON-decoded values. It returns false
// when the property does not apply or the value has the wrong type.
func (o *SceneObject) Set(p Property, v any) bool {
	switch p {
	case PropLeft:
		return setFloat(&o.Left, v)
	case PropTop:
		return setFloat(&o.Top, v)
	case PropWidth:
		return setFloat(&o.Width, v)
	case PropHeight:
		return setFloat(&o.Height, v)
	case PropAngle:
		return setFloat(&o.Angle, v)
	case PropScaleX:
		return setFloat(&o.ScaleX, v)
	case PropScaleY:
		return setFloat(&o.ScaleY, v)
	case PropOpacity:
		return setFloat(&o.Opacity, v)
	case PropVisible:
		b, ok := v.(bool)
		if ok {
			o.Visible = b
		}
		return ok
	}

	if t := o.Text; t != nil {
		switch p {
		case PropText:
			return setString(&t.Text, v)
		case PropFontFamily:
			return setString(&t.FontFamily, v)
		case PropFontSize:
			return setFloat(&t.FontSize, v)
		case PropFontWeight:
			return setString(&t.FontWeight, v)
		case PropFontStyle:
			return setString(&t.FontStyle, v)
		case PropTextDecoration:
			return setString(&t.TextDecoration, v)
		case PropFill:
			return setString(&t.Fill, v)
		case PropTextBackgroundColor:
			return setString(&t.TextBackgroundColor, v)
		case PropStroke:
			return setString(&t.Stroke, v)
		case PropStrokeWidth:
			return setFloat(&t.StrokeWidth, v)
		case PropTextAlign:
			return setString(&t.TextAlign, v)
		case PropStyles:
			return setStyles(&t.Styles, v)
		}
	}

	if s := o.Shape; s != nil {
		switch p {
		case PropFill:
			return setString(&s.Fill, v)
		case PropStroke:
			return setString(&s.Stroke, v)
		case PropStrokeWidth:
			return setFloat(&s.StrokeWidth, v)
		}
	}

	return false
}

func setFloat(dst *float64, v any) bool {
	f, ok := toFloat(v)
	if ok {
		*dst = f
	}
	return ok
}

func setString(dst *string, v any) bool {
	s, ok := v.(string)
	if ok {
		*dst = s
	}
	return ok
}

// setStyles accepts a []StyleRange or its JSON-decoded form.
func setStyles(dst *[]StyleRange, v any) bool {
	switch r := v.(type) {
	case nil:
		*dst = nil
		return true
	case []StyleRange:
		*dst = copyStyles(r)
		return true
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	var ranges []StyleRange
	if err := json.Unmarshal(raw, &ranges); err != nil {
		return false
	}
	*dst = copyStyles(ranges)
	return true
}

func copyStyles(src []StyleRange) []StyleRange {
	if len(src) == 0 {
		return nil
	}
	out := make([]StyleRange, len(src))
	for i, r := range src {
		out[i] = StyleRange{Start: r.Start, End: r.End, Style: r.Style.Copy()}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
