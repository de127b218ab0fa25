package template

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

const (
	templateDPI       = 144
	defaultLineHeight = 1.16
)

var blankLines = regexp.MustCompile(`\n\s*\n`)

// FontSize converts a point size to canvas pixels.
func FontSize(pt float64) float64 {
	return pt * templateDPI / 72
}

// Result is a face built from the backend object list.
type Result struct {
	// Objects in paint order.
	Objects []*models.SceneObject
	// Unsaved lists objects that still need a server id.
	Unsaved    []*models.SceneObject
	HasCoupons bool
	CouponSize string
}

// Builder turns backend object lists into scene objects.
type Builder struct {
	urls    URLs
	tracker *Tracker
	emitter events.Emitter
}

func NewBuilder(urls URLs, tracker *Tracker, emitter events.Emitter) *Builder {
	if emitter == nil {
		emitter = events.Discard{}
	}
	return &Builder{urls: urls, tracker: tracker, emitter: emitter}
}

// Build constructs every object of a face. Image sources start loading on
// the tracker; callers Wait on it before reading the face.
func (b *Builder) Build(ctx context.Context, face models.Face, product models.ProductType, objects []models.OrderObject) Result {
	var res Result
	for _, o := range objects {
		if o.ImageAlign == "IASTRETCH" {
			o.ImageAlign = "IACROP"
		}
		rt := models.ResourceType(strings.ToUpper(string(o.ResourceType)))

		var obj *models.SceneObject
		switch rt {
		case models.ResourceText, models.ResourceBlockText, models.ResourceFrontCoupon:
			obj = b.text(o, face)
		case models.ResourceShape:
			obj = b.shape(o)
		case models.ResourceImage:
			obj = b.image(ctx, o)
		case models.ResourceCoupon:
			obj = b.coupon(ctx, o, product, &res)
		case models.ResourceBackCoupon:
			obj = b.couponText(ctx, o, face, res.Objects)
			if obj != nil && !obj.Persisted() {
				res.Unsaved = append(res.Unsaved, obj)
			}
		default:
			log.Printf("skipping %s: unknown resource type %q", o.ObjectName, o.ResourceType)
		}
		if obj == nil {
			continue
		}
		obj.ResourceType = rt
		obj.PageNumber = face
		obj.SaveState()
		res.Objects = append(res.Objects, obj)
	}

	sort.SliceStable(res.Objects, func(i, j int) bool { return res.Objects[i].ZIndex < res.Objects[j].ZIndex })
	return res
}

func base(o models.OrderObject) *models.SceneObject {
	obj := models.NewSceneObject()
	if o.ID > 0 {
		obj.SetServerID(o.ID)
	}
	obj.ObjectName = o.ObjectName
	obj.ObjectType = o.ObjectType
	obj.ObjectGroup = o.ObjectGroup
	obj.DisplayOrder = o.DisplayOrder
	obj.ZIndex = o.ZIndex
	obj.Left, obj.Top = o.X, o.Y
	obj.Width, obj.Height = o.Width, o.Height
	obj.Angle = o.Angle
	obj.Opacity = o.Opacity()
	obj.SuppressPrinting = o.SuppressPrinting
	return obj
}

func textValue(o models.OrderObject, face models.Face) string {
	text := o.Text
	if strings.TrimSpace(text) == "" && face != models.FaceEnvelope {
		text = "{Enter your " + o.ObjectName + " here.}"
	}
	if o.ObjectType == models.ObjectTypeEnvelopeAddressee {
		text = blankLines.ReplaceAllString(text, "\n")
	}
	return text
}

func textAlign(s string) string {
	if len(s) < 2 {
		return "left"
	}
	return strings.ToLower(s[2:])
}

func (b *Builder) text(o models.OrderObject, face models.Face) *models.SceneObject {
	obj := base(o)
	obj.Selectable = !o.SuppressPrinting
	obj.Visible = o.FlagVisible

	t := &models.TextProps{
		Text:            textValue(o, face),
		FontFamily:      o.Font,
		FontSize:        FontSize(o.FontSize),
		Fill:            o.FontColor,
		BackgroundColor: o.BackgroundColor,
		TextAlign:       textAlign(o.TextAlign),
		LineHeight:      defaultLineHeight,
		AutoFontSize:    o.FlagResize,
		WordBreak:       o.FlagWordBreak,
		OrgFontSize:     o.OrgFontSize,
		OrgWidth:        o.Width,
		OrgHeight:       o.Height,
		MinHeight:       o.Height,
	}
	if strings.EqualFold(o.Font, "baginda script") {
		t.LineHeight -= 0.5
	}
	if strings.Contains(o.FontStyle, "fsBold,") {
		t.FontWeight = "bold"
		t.Styles = []models.StyleRange{{
			Start: 0,
			End:   len([]rune(t.Text)),
			Style: models.State{models.PropFontWeight: "bold"},
		}}
	}
	obj.Text = t
	return obj
}

func (b *Builder) shape(o models.OrderObject) *models.SceneObject {
	obj := base(o)
	s := &models.ShapeProps{Fill: o.FontColor, Radius: o.Radius}
	switch o.ObjectType {
	case models.ObjectTypeLine:
		s.Kind = models.ShapeLine
		s.Stroke = o.FontColor
		obj.Opacity = 1
	case models.ObjectTypeCircle:
		s.Kind = models.ShapeCircle
		s.Stroke = o.FontColor
	case models.ObjectTypeRectangle, models.ObjectTypeStaticRectangle:
		s.Kind = models.ShapeRect
		obj.Selectable = !o.SuppressPrinting
	default:
		log.Printf("skipping shape %s: unknown object type %d", o.ObjectName, o.ObjectType)
		return nil
	}
	obj.Shape = s
	return obj
}

func (b *Builder) image(ctx context.Context, o models.OrderObject) *models.SceneObject {
	obj := base(o)
	folder, selectable := ImageFolder(o.ObjectType)
	obj.Selectable = selectable && !o.SuppressPrinting
	obj.Visible = o.FlagVisible

	scale := "best-fit"
	if o.ImageAlign == "IACROP" {
		scale = "fill"
	}
	img := &models.ImageProps{
		Src:        b.urls.ImageURL(o.ObjectType, o.Text),
		Text:       o.Text,
		ImgType:    folder,
		ImageAlign: o.ImageAlign,
		Scale:      scale,
		OrgLeft:    o.X,
		OrgTop:     o.Y,
		OrgWidth:   o.Width,
		OrgHeight:  o.Height,
	}
	obj.Image = img

	b.load(ctx, img.Src, func(info ImageInfo, err error) {
		if err != nil {
			return
		}
		img.NaturalWidth, img.NaturalHeight = info.Width, info.Height
		img.Resolved = true
	})
	return obj
}

func (b *Builder) coupon(ctx context.Context, o models.OrderObject, product models.ProductType, res *Result) *models.SceneObject {
	obj := base(o)
	obj.Selectable = !o.SuppressPrinting
	obj.Visible = o.FlagVisible

	code := CouponCode(o.Text)
	res.HasCoupons = true
	switch size := CouponSize(o.ObjectName, product); size {
	case "":
		events.Msg(ctx, b.emitter, "Unknown Coupon Type", "Error", events.KindError)
	default:
		res.CouponSize = size
	}

	c := &models.CouponProps{
		Code:       code,
		Size:       res.CouponSize,
		Src:        b.urls.CouponURL(code),
		Text:       o.Text,
		ImageAlign: o.ImageAlign,
		OrgWidth:   o.Width,
		OrgHeight:  o.Height,
	}
	obj.Coupon = c

	b.load(ctx, c.Src, func(info ImageInfo, err error) {
		if err != nil {
			return
		}
		c.NaturalWidth, c.NaturalHeight = info.Width, info.Height
		c.Resolved = true
	})
	return obj
}

// couponText places coupon-bound text relative to its linked coupon.
func (b *Builder) couponText(ctx context.Context, o models.OrderObject, face models.Face, built []*models.SceneObject) *models.SceneObject {
	var coupon *models.SceneObject
	for _, c := range built {
		if c.Persisted() && c.ServerID() == o.LinkedObject {
			coupon = c
			break
		}
	}
	if coupon == nil {
		events.Msg(ctx, b.emitter, "Error Loading Coupon.  Selected Coupon Not Found", "Error", events.KindError)
		return nil
	}

	obj := b.text(o, face)
	obj.Left = coupon.Left + o.X
	obj.Top = coupon.Top + o.Y
	obj.LinkedObject = coupon.ServerID()
	obj.Text.CouponID = o.CouponID
	return obj
}

func (b *Builder) load(ctx context.Context, url string, apply func(ImageInfo, error)) {
	if b.tracker == nil {
		return
	}
	b.tracker.Go(ctx, url, apply)
}

func (r Result) String() string {
	return fmt.Sprintf("%d objects, %d unsaved", len(r.Objects), len(r.Unsaved))
}
