package scene

import (
	"context"
	"errors"
	"testing"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

type fakeStore struct {
	next  int64
	fail  bool
	calls int
}

func (s *fakeStore) CreateObject(_ context.Context, _ *models.SceneObject) (int64, error) {
	s.calls++
	if s.fail {
		return 0, errors.New("backend unavailable")
	}
	s.next++
	return s.next, nil
}

func newText(name string, left, top float64) *models.SceneObject {
	o := models.NewSceneObject()
	o.ObjectName = name
	o.ObjectType = 1
	o.ResourceType = models.ResourceText
	o.Left, o.Top, o.Width, o.Height = left, top, 100, 20
	o.Text = &models.TextProps{Text: name, FontFamily: "Arial", FontSize: 24}
	return o
}

func newShape(name string) *models.SceneObject {
	o := models.NewSceneObject()
	o.ObjectName = name
	o.ObjectType = models.ObjectTypeRectangle
	o.ResourceType = models.ResourceShape
	o.Shape = &models.ShapeProps{Kind: models.ShapeRect, Fill: "#fff"}
	return o
}

func TestAddObjectAssignsServerID(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{next: 100}
	em := &events.MockEmitter{}
	c := NewCanvas(store, em, DefaultOptions())

	obj := newText("Headline", 10, 10)
	if err := c.AddObject(ctx, obj, true, true); err != nil {
		t.Fatalf("add: %v", err)
	}
	if obj.ServerID() != 101 {
		t.Errorf("expected id 101, got %d", obj.ServerID())
	}
	if c.History().Len() != 1 || c.History().Index() != 1 {
		t.Errorf("expected one recorded add")
	}
	if em.Count(events.SidebarReload) != 1 {
		t.Errorf("expected side panel reload")
	}

	if err := c.AddObject(ctx, newText("Saved", 0, 0), false, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	again := newText("Known", 0, 0)
	again.SetServerID(7)
	if err := c.AddObject(ctx, again, false, false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.calls != 2 {
		t.Errorf("expected 2 creates, got %d", store.calls)
	}
}

func TestAddObjectCreateFailure(t *testing.T) {
	ctx := context.Background()
	em := &events.MockEmitter{}
	c := NewCanvas(&fakeStore{fail: true}, em, DefaultOptions())

	obj := newText("Headline", 10, 10)
	err := c.AddObject(ctx, obj, true, true)
	if !errors.Is(err, ErrCreateObject) {
		t.Fatalf("expected ErrCreateObject, got %v", err)
	}
	if obj.Persisted() {
		t.Errorf("object should stay unsaved")
	}
	if c.History().Len() != 0 {
		t.Errorf("failed create must not be recorded")
	}
	if em.Count(events.ErrorReport) != 1 {
		t.Errorf("expected an error report")
	}
}

func TestRemoveObjectRequiresName(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	obj := newShape("")
	_ = c.AddObject(ctx, obj, false, false)

	if c.RemoveObject(ctx, obj, true, true) {
		t.Fatalf("unnamed object removed")
	}
	if c.Len() != 1 || c.History().Len() != 0 {
		t.Fatalf("unexpected state: len=%d history=%d", c.Len(), c.History().Len())
	}
}

func TestRemoveAndUndoRestoresPosition(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	c.EditMode(ctx, true)
	a, shapeC, b := newText("a", 0, 0), newShape("shapeC"), newText("b", 0, 0)
	for _, o := range []*models.SceneObject{a, shapeC, b} {
		_ = c.AddObject(ctx, o, false, false)
	}

	if !c.RemoveObject(ctx, shapeC, true, true) {
		t.Fatalf("remove failed")
	}
	if c.Contains(shapeC) || c.History().Len() != 1 || c.History().Index() != 1 {
		t.Fatalf("unexpected state after remove")
	}
	if err := c.History().Back(ctx); err != nil {
		t.Fatalf("back: %v", err)
	}
	if c.IndexOf(shapeC) != 1 || c.History().Index() != 0 {
		t.Fatalf("expected shapeC at 1, got %d", c.IndexOf(shapeC))
	}
}

func TestEndToEndUndoRedo(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(&fakeStore{}, nil, DefaultOptions())
	c.EditMode(ctx, true)
	h := c.History()

	textA := newText("textA", 10, 10)
	if err := c.AddObject(ctx, textA, true, true); err != nil {
		t.Fatalf("add: %v", err)
	}
	imageB := models.NewSceneObject()
	imageB.ObjectName = "imageB"
	imageB.ResourceType = models.ResourceImage
	imageB.Image = &models.ImageProps{Src: "b.png"}
	if err := c.AddObject(ctx, imageB, true, true); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := h.Back(ctx); err != nil {
		t.Fatalf("back: %v", err)
	}
	if c.Contains(imageB) || h.Index() != 1 {
		t.Fatalf("imageB still present")
	}

	if err := c.Modify(ctx, textA, models.State{models.PropLeft: 50.0, models.PropTop: 50.0}); err != nil {
		t.Fatalf("modify: %v", err)
	}
	if h.Index() != 2 || h.Len() != 2 {
		t.Fatalf("expected len=2 index=2, got %d/%d", h.Len(), h.Index())
	}

	_ = h.Back(ctx)
	if textA.Left != 10 || textA.Top != 10 {
		t.Fatalf("undo: got (%v,%v)", textA.Left, textA.Top)
	}
	_ = h.Forward(ctx)
	if textA.Left != 50 || textA.Top != 50 {
		t.Fatalf("redo: got (%v,%v)", textA.Left, textA.Top)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", c.Len())
	}
}

func TestRedoAddDoesNotRecordAgain(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	c := NewCanvas(store, nil, DefaultOptions())
	obj := newText("a", 0, 0)
	_ = c.AddObject(ctx, obj, true, true)

	_ = c.History().Back(ctx)
	_ = c.History().Forward(ctx)
	if c.History().Len() != 1 || !c.Contains(obj) {
		t.Fatalf("redo changed history length to %d", c.History().Len())
	}
	if store.calls != 1 {
		t.Errorf("redo of a saved object must not create it again")
	}
}

func TestModifyRejectsUnknownProperty(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	obj := newShape("box")
	_ = c.AddObject(ctx, obj, false, false)

	err := c.Modify(ctx, obj, models.State{models.PropFontFamily: "Arial"})
	if !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
	if c.History().Len() != 0 {
		t.Errorf("rejected patch was recorded")
	}
}

func TestIsEditableObject(t *testing.T) {
	c := NewCanvas(nil, nil, DefaultOptions())
	office := NewCanvas(nil, nil, Options{BackOffice: true})

	tests := []struct {
		name       string
		objectType int
		suppress   bool
		want       bool
	}{
		{"plain text", 1, false, true},
		{"addressee", models.ObjectTypeEnvelopeAddressee, true, true},
		{"suppressed", 1, true, false},
		{"non editable text", models.ObjectTypeNonEditableText, false, false},
		{"postal image", models.ObjectTypePostalImage, false, false},
		{"static logo", models.ObjectTypeStaticLogo, false, false},
		{"driving map", models.ObjectTypeDrivingMap, false, false},
		{"order number", models.ObjectTypeOrderNumber, false, false},
		{"static rectangle", models.ObjectTypeStaticRectangle, false, false},
		{"logo", models.ObjectTypeLogo, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newText(tt.name, 0, 0)
			o.ObjectType = tt.objectType
			o.SuppressPrinting = tt.suppress
			if got := c.IsEditableObject(o); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if !office.IsEditableObject(o) {
				t.Errorf("back office must edit everything")
			}
		})
	}
}

func TestSetCanvasSelection(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	text := newText("a", 0, 0)
	static := newShape("static")
	static.ObjectType = models.ObjectTypeStaticRectangle
	_ = c.AddObject(ctx, text, false, false)
	_ = c.AddObject(ctx, static, false, false)

	c.EditMode(ctx, true)
	if !text.Selectable || !text.Editable {
		t.Errorf("text should be selectable and editable in advanced mode")
	}
	if static.Selectable || static.Editable {
		t.Errorf("static rectangle must stay locked")
	}

	c.EditMode(ctx, false)
	if !text.Selectable || text.Editable {
		t.Errorf("restricted mode: selectable=%v editable=%v", text.Selectable, text.Editable)
	}
}

func TestRestrictedModeKeepsContentEdits(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	obj := newText("a", 10, 10)
	_ = c.AddObject(ctx, obj, false, false)

	err := c.Modify(ctx, obj, models.State{models.PropLeft: 300.0})
	if !errors.Is(err, ErrAdvancedOnly) {
		t.Fatalf("expected ErrAdvancedOnly, got %v", err)
	}
	if obj.Left != 10 || c.History().Len() != 0 {
		t.Fatalf("rejected move applied: left=%v history=%d", obj.Left, c.History().Len())
	}

	if err := c.Modify(ctx, obj, models.State{models.PropText: "Hi", models.PropFontSize: 30.0}); err != nil {
		t.Fatalf("content edit: %v", err)
	}
	if obj.Text.Text != "Hi" || c.History().Len() != 1 {
		t.Errorf("content edit not recorded")
	}

	if err := c.CanAdd(); !errors.Is(err, ErrAdvancedOnly) {
		t.Errorf("expected add to need advanced mode, got %v", err)
	}
	if c.RemoveObject(ctx, obj, true, true) {
		t.Errorf("restricted mode removed an object")
	}

	c.EditMode(ctx, true)
	if err := c.CanAdd(); err != nil {
		t.Errorf("advanced add: %v", err)
	}
	if err := c.Modify(ctx, obj, models.State{models.PropLeft: 300.0}); err != nil {
		t.Errorf("advanced move: %v", err)
	}
	if !c.RemoveObject(ctx, obj, true, true) {
		t.Errorf("advanced remove failed")
	}
}

func TestLockedObjectRejectsEdits(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	c.EditMode(ctx, true)
	locked := newText("locked", 10, 10)
	locked.ObjectType = models.ObjectTypeNonEditableText
	other := newText("other", 0, 0)
	_ = c.AddObject(ctx, other, false, false)
	_ = c.AddObject(ctx, locked, false, false)

	if err := c.Modify(ctx, locked, models.State{models.PropText: "x"}); !errors.Is(err, ErrNotEditable) {
		t.Errorf("expected ErrNotEditable on modify, got %v", err)
	}
	if err := c.Arrange(ctx, locked, SendToBack); !errors.Is(err, ErrNotEditable) {
		t.Errorf("expected ErrNotEditable on arrange, got %v", err)
	}
	if c.RemoveObject(ctx, locked, true, true) {
		t.Errorf("locked object removed")
	}
	if c.IndexOf(locked) != 1 || locked.Text.Text != "locked" || c.History().Len() != 0 {
		t.Fatalf("locked object changed: index=%d history=%d", c.IndexOf(locked), c.History().Len())
	}

	office := NewCanvas(nil, nil, Options{BackOffice: true})
	_ = office.AddObject(ctx, locked, false, false)
	if err := office.Modify(ctx, locked, models.State{models.PropLeft: 50.0}); err != nil {
		t.Errorf("back office move: %v", err)
	}
	if !office.RemoveObject(ctx, locked, true, true) {
		t.Errorf("back office remove failed")
	}
}

func TestArrangeChangesZIndexOnly(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	a, b, d := newText("a", 0, 0), newText("b", 0, 0), newText("d", 0, 0)
	a.DisplayOrder, b.DisplayOrder, d.DisplayOrder = 3, 1, 2
	for _, o := range []*models.SceneObject{a, b, d} {
		_ = c.AddObject(ctx, o, false, false)
	}

	if err := c.Arrange(ctx, a, BringToFront); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if c.IndexOf(a) != 2 || a.ZIndex != 2 || b.ZIndex != 0 {
		t.Fatalf("unexpected order: a=%d zA=%d zB=%d", c.IndexOf(a), a.ZIndex, b.ZIndex)
	}
	if a.DisplayOrder != 3 || b.DisplayOrder != 1 {
		t.Errorf("display order changed")
	}

	_ = c.Arrange(ctx, a, SendBackwards)
	if c.IndexOf(a) != 1 {
		t.Errorf("expected a at 1, got %d", c.IndexOf(a))
	}
	_ = c.Arrange(ctx, b, SendToBack)
	_ = c.Arrange(ctx, b, BringForward)
	if c.IndexOf(b) != 1 {
		t.Errorf("expected b at 1, got %d", c.IndexOf(b))
	}
}

func TestSidePanelOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	a, b := newText("a", 0, 0), newText("b", 0, 0)
	a.DisplayOrder, b.DisplayOrder = 2, 1
	shape := newShape("s")
	for _, o := range []*models.SceneObject{a, b, shape} {
		_ = c.AddObject(ctx, o, false, false)
	}

	p := c.SidePanel()
	texts := p.Groups[models.ResourceText]
	if len(texts) != 2 || texts[0].ObjectName != "b" || texts[1].ObjectName != "a" {
		t.Fatalf("unexpected text group: %+v", texts)
	}
	if len(p.Groups[models.ResourceShape]) != 1 {
		t.Errorf("expected one shape entry")
	}
}

func TestFaceRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil, nil, DefaultOptions())
	a := newText("a", 5, 6)
	a.SetServerID(11)
	_ = c.AddObject(ctx, a, false, false)
	_ = c.AddObject(ctx, newShape("s"), false, false)

	raw, err := c.MarshalFace()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	other := NewCanvas(nil, nil, DefaultOptions())
	if err := other.LoadFace(ctx, raw); err != nil {
		t.Fatalf("load: %v", err)
	}
	if other.Len() != 2 {
		t.Fatalf("expected 2 objects, got %d", other.Len())
	}
	got, ok := other.GetObjectByID(11)
	if !ok || got.Key != a.Key || got.Left != 5 || got.Text.Text != "a" {
		t.Fatalf("object not preserved: %+v", got)
	}
	if other.History().Len() != 0 {
		t.Errorf("load must not record history")
	}

	if err := other.LoadFace(ctx, ""); !errors.Is(err, ErrEmptyFace) {
		t.Errorf("expected ErrEmptyFace, got %v", err)
	}
}
