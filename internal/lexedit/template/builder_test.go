package template

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

type fakeFetcher struct {
	mu   sync.Mutex
	urls []string
	fail map[string]bool
}

func (f *fakeFetcher) FetchImage(_ context.Context, url string) (ImageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.fail[url] {
		return ImageInfo{}, errors.New("not found")
	}
	return ImageInfo{Width: 300, Height: 200}, nil
}

var testURLs = URLs{Images: "https://img/", WebData: "https://data/", Version: "9"}

func newTestBuilder(f ImageFetcher, em events.Emitter) (*Builder, *Tracker) {
	tr := NewTracker(f, time.Millisecond)
	return NewBuilder(testURLs, tr, em), tr
}

func TestBuildText(t *testing.T) {
	b, _ := newTestBuilder(nil, nil)
	res := b.Build(context.Background(), models.FaceFront, models.ProductPostcard, []models.OrderObject{
		{ID: 1, ObjectName: "Headline", ResourceType: "t", ObjectType: 1, X: 10, Y: 20, Width: 200, Height: 40,
			Font: "Arial", FontSize: 12, FontColor: "#111", FontStyle: "fsBold,", TextAlign: "taCenter", FlagVisible: true},
		{ID: 2, ObjectName: "Tagline", ResourceType: "T", Text: "  "},
	})

	if len(res.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(res.Objects))
	}
	h := res.Objects[0]
	if h.ServerID() != 1 || h.ResourceType != models.ResourceText || h.PageNumber != models.FaceFront {
		t.Errorf("unexpected identity: %+v", h)
	}
	if h.Text.FontSize != 24 {
		t.Errorf("expected 24px, got %v", h.Text.FontSize)
	}
	if h.Text.TextAlign != "center" {
		t.Errorf("expected center, got %q", h.Text.TextAlign)
	}
	if h.Text.FontWeight != "bold" || len(h.Text.Styles) != 1 {
		t.Errorf("bold not applied: %+v", h.Text)
	}
	if h.Text.Text != "{Enter your Headline here.}" {
		t.Errorf("unexpected placeholder %q", h.Text.Text)
	}
	if res.Objects[1].Text.Text != "{Enter your Tagline here.}" {
		t.Errorf("blank text should get placeholder, got %q", res.Objects[1].Text.Text)
	}
	if h.Opacity != 1 {
		t.Errorf("missing alpha should be opaque")
	}
}

func TestBuildTextOnEnvelope(t *testing.T) {
	b, _ := newTestBuilder(nil, nil)
	res := b.Build(context.Background(), models.FaceEnvelope, 0, []models.OrderObject{
		{ID: 1, ObjectName: "Return", ResourceType: "T"},
		{ID: 2, ObjectName: "Addressee", ResourceType: "T", ObjectType: models.ObjectTypeEnvelopeAddressee, Text: "A\n  \nB\n\nC"},
	})
	if res.Objects[0].Text.Text != "" {
		t.Errorf("envelope text must stay empty, got %q", res.Objects[0].Text.Text)
	}
	if res.Objects[1].Text.Text != "A\nB\nC" {
		t.Errorf("blank lines not collapsed: %q", res.Objects[1].Text.Text)
	}
}

func TestBuildShapes(t *testing.T) {
	b, _ := newTestBuilder(nil, nil)
	res := b.Build(context.Background(), models.FaceBack, 0, []models.OrderObject{
		{ID: 1, ObjectName: "line", ResourceType: "S", ObjectType: models.ObjectTypeLine, FontColor: "#000", ZIndex: 3},
		{ID: 2, ObjectName: "dot", ResourceType: "S", ObjectType: models.ObjectTypeCircle, Radius: 5, ZIndex: 1},
		{ID: 3, ObjectName: "box", ResourceType: "S", ObjectType: models.ObjectTypeStaticRectangle, Radius: 4, SuppressPrinting: true, ZIndex: 2},
		{ID: 4, ObjectName: "blob", ResourceType: "S", ObjectType: 999},
	})
	if len(res.Objects) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(res.Objects))
	}
	kinds := []models.ShapeKind{models.ShapeCircle, models.ShapeRect, models.ShapeLine}
	for i, k := range kinds {
		if res.Objects[i].Shape.Kind != k {
			t.Errorf("position %d: expected %s, got %s", i, k, res.Objects[i].Shape.Kind)
		}
	}
	if res.Objects[1].Selectable {
		t.Errorf("suppressed rectangle should not be selectable")
	}
	if res.Objects[1].Shape.Radius != 4 {
		t.Errorf("rectangle radius lost")
	}
}

func TestBuildImagesResolveOnWait(t *testing.T) {
	f := &fakeFetcher{fail: map[string]bool{"https://img/Logos/broken-300.png": true}}
	b, tr := newTestBuilder(f, nil)
	ctx := context.Background()

	res := b.Build(ctx, models.FaceFront, 0, []models.OrderObject{
		{ID: 1, ObjectName: "logo", ResourceType: "I", ObjectType: models.ObjectTypeLogo, Text: `acme\logo`, ImageAlign: "IASTRETCH"},
		{ID: 2, ObjectName: "qr", ResourceType: "I", ObjectType: models.ObjectTypeQRCode},
		{ID: 3, ObjectName: "static", ResourceType: "I", ObjectType: models.ObjectTypeStaticLogo, Text: "broken"},
	})
	if err := tr.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	logo := res.Objects[0].Image
	if logo.Src != "https://img/Logos/acme/logo-300.png" {
		t.Errorf("unexpected src %q", logo.Src)
	}
	if logo.ImageAlign != "IACROP" || logo.Scale != "fill" {
		t.Errorf("stretch not mapped to crop: %+v", logo)
	}
	if !logo.Resolved || logo.NaturalWidth != 300 {
		t.Errorf("image not resolved: %+v", logo)
	}
	if got := res.Objects[1].Image.Src; got != "https://img/QRCodes/Default/1.png" {
		t.Errorf("unexpected qr src %q", got)
	}
	if res.Objects[1].Image.Scale != "best-fit" {
		t.Errorf("expected best-fit")
	}
	static := res.Objects[2]
	if static.Selectable || static.Image.Resolved {
		t.Errorf("static logo: selectable=%v resolved=%v", static.Selectable, static.Image.Resolved)
	}
	if tr.Pending() != 0 {
		t.Errorf("pending loads after wait")
	}
}

func TestBuildCoupons(t *testing.T) {
	em := &events.MockEmitter{}
	b, tr := newTestBuilder(&fakeFetcher{}, em)
	ctx := context.Background()

	res := b.Build(ctx, models.FaceBack, models.ProductPostcard, []models.OrderObject{
		{ID: 10, ObjectName: "SmallCoupon1", ResourceType: "C", Text: "[Offer\narea]", X: 100, Y: 50},
		{ID: 0, ObjectName: "Expires", ResourceType: "BC", LinkedObject: 10, X: 5, Y: 6, CouponID: 77},
		{ID: 12, ObjectName: "Orphan", ResourceType: "BC", LinkedObject: 99},
	})
	if err := tr.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if len(res.Objects) != 2 {
		t.Fatalf("expected coupon and its text, got %d", len(res.Objects))
	}
	c := res.Objects[0].Coupon
	if c.Code != "100000t" || c.Src != "https://data/Coupons/100000t.png" || c.Size != "S" {
		t.Errorf("unexpected coupon %+v", c)
	}
	if !res.HasCoupons || res.CouponSize != "S" {
		t.Errorf("coupon flags not set: %+v", res)
	}

	bc := res.Objects[1]
	if bc.Left != 105 || bc.Top != 56 || bc.LinkedObject != 10 || bc.Text.CouponID != 77 {
		t.Errorf("coupon text misplaced: %+v", bc)
	}
	if len(res.Unsaved) != 1 || res.Unsaved[0] != bc {
		t.Errorf("unsaved coupon text not reported")
	}

	ev, ok := em.Last(events.Toast)
	if !ok || ev.Data.(events.ToastPayload).Text != "Error Loading Coupon.  Selected Coupon Not Found" {
		t.Errorf("missing coupon toast, got %+v", ev)
	}
}

func TestCouponSize(t *testing.T) {
	tests := []struct {
		name    string
		product models.ProductType
		want    string
	}{
		{"LargeCoupon", models.ProductPostcard, "L"},
		{"SmallCoupon2", models.ProductDoorHangers, "L"},
		{"SmallCoupon2", models.ProductPostcard, "S"},
		{"Other", models.ProductPostcard, ""},
	}
	for _, tt := range tests {
		if got := CouponSize(tt.name, tt.product); got != tt.want {
			t.Errorf("CouponSize(%s, %d) = %q, want %q", tt.name, tt.product, got, tt.want)
		}
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		objectType int
		text       string
		want       string
	}{
		{models.ObjectTypeSignature, "", "https://img/Signatures/M3/1.png?v=9"},
		{models.ObjectTypePersonalPhoto, "Click here to add Coupon One", "https://img/PersonalPhotos/M3/1.png?v=9"},
		{models.ObjectTypeDesignPhoto, "x", "https://img/OwnDesigns/x-300.png"},
		{models.ObjectTypeDrivingMap, "map", "https://img/Artwork/map-300.png"},
		{77, "y", "https://img/Unknown Object Type: (77)y-300.png"},
	}
	for _, tt := range tests {
		if got := testURLs.ImageURL(tt.objectType, tt.text); got != tt.want {
			t.Errorf("ImageURL(%d, %q) = %q, want %q", tt.objectType, tt.text, got, tt.want)
		}
	}
}
