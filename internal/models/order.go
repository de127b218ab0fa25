package models

// OrderData is the GetOrderData payload for one order.
type OrderData struct {
	FrontJSON    string `json:"frontJSON"`
	BackJSON     string `json:"backJSON"`
	InsideJSON   string `json:"insideJSON"`
	EnvelopeJSON string `json:"envelopeJSON"`

	FrontFace    []OrderObject `json:"FrontFace"`
	BackFace     []OrderObject `json:"BackFace"`
	InsideFace   []OrderObject `json:"InsideFace"`
	EnvelopeFace []OrderObject `json:"EnvelopeFace"`

	FrontTemplateID    int64 `json:"FrontTemplateID"`
	BackTemplateID     int64 `json:"BackTemplateID"`
	InsideTemplateID   int64 `json:"InsideTemplateID"`
	EnvelopeTemplateID int64 `json:"EnvelopeTemplateID"`

	ProductSize int         `json:"ProductSize"`
	ProductType ProductType `json:"ProductType"`
}

// FaceJSON returns the serialized face stored on the order.
func (d *OrderData) FaceJSON(f Face) string {
	switch f {
	case FaceFront:
		return d.FrontJSON
	case FaceBack:
		return d.BackJSON
	case FaceInside:
		return d.InsideJSON
	case FaceEnvelope:
		return d.EnvelopeJSON
	}
	return ""
}

// FaceObjects returns the raw object list of a face.
func (d *OrderData) FaceObjects(f Face) []OrderObject {
	switch f {
	case FaceFront:
		return d.FrontFace
	case FaceBack:
		return d.BackFace
	case FaceInside:
		return d.InsideFace
	case FaceEnvelope:
		return d.EnvelopeFace
	}
	return nil
}

// OrderObject is one object as the order backend describes it.
type OrderObject struct {
	ID               int64        `json:"ID"`
	LinkedObject     int64        `json:"LinkedObject"`
	PageNumber       Face         `json:"PageNumber"`
	ObjectName       string       `json:"ObjectName"`
	ObjectType       int          `json:"ObjectType"`
	ObjectGroup      string       `json:"ObjectGroup"`
	ResourceType     ResourceType `json:"ResourceType"`
	X                float64      `json:"X"`
	Y                float64      `json:"Y"`
	Width            float64      `json:"Width"`
	Height           float64      `json:"Height"`
	Angle            float64      `json:"Angle"`
	Radius           float64      `json:"Radius"`
	Text             string       `json:"Text"`
	Font             string       `json:"Font"`
	FontSize         float64      `json:"FontSize"`
	OrgFontSize      float64      `json:"OrgFontSize"`
	FontColor        string       `json:"FontColor"`
	FontStyle        string       `json:"FontStyle"`
	TextAlign        string       `json:"TextAlign"`
	BackgroundColor  string       `json:"BackgroundColor"`
	Alpha            *float64     `json:"Alpha"`
	ImageAlign       string       `json:"ImageAlign"`
	FlagResize       bool         `json:"FlagResize"`
	FlagWordBreak    bool         `json:"FlagWordBreak"`
	FlagVisible      bool         `json:"FlagVisible"`
	SuppressPrinting bool         `json:"SuppressPrinting"`
	DisplayOrder     int          `json:"DisplayOrder"`
	ZIndex           int          `json:"zIndex"`
	CouponID         int64        `json:"CouponID"`
}

// Opacity returns Alpha, defaulting to fully opaque when the backend omits it.
func (o OrderObject) Opacity() float64 {
	if o.Alpha == nil {
		return 1
	}
	return *o.Alpha
}

// OrderVars is the per-session order state.
type OrderVars struct {
	OrderNumber     int64  `json:"orderNumber"`
	UserID          int64  `json:"userId"`
	SessionID       string `json:"sessionId"`
	MembershipType  int    `json:"membershipType"`
	DefaultSide     string `json:"defaultSide"`
	MarketingSeries bool   `json:"marketingSeries"`

	FrontTemplateID    int64 `json:"frontTemplateId"`
	BackTemplateID     int64 `json:"backTemplateId"`
	InsideTemplateID   int64 `json:"insideTemplateId"`
	EnvelopeTemplateID int64 `json:"envelopeTemplateId"`

	ProductSize int         `json:"productSize"`
	ProductType ProductType `json:"productType"`

	AllowCutLines     bool   `json:"allowCutLines"`
	CurrentPage       Face   `json:"currentPage"`
	HasCoupons        bool   `json:"hasCoupons"`
	CurrentCouponSize string `json:"currentCouponSize"`
	IsLoadingTemplate bool   `json:"isLoadingTemplate"`

	AllSidesEdited bool `json:"allSidesEdited"`
	BackEdited     bool `json:"backEdited"`
	InsideEdited   bool `json:"insideEdited"`

	EditAllowed map[Face]bool `json:"editAllowed"`
	TabVisible  map[Face]bool `json:"tabVisible"`
}

// NewOrderVars returns order state with the editor defaults.
func NewOrderVars() *OrderVars {
	return &OrderVars{
		AllowCutLines: true,
		EditAllowed:   map[Face]bool{},
		TabVisible:    map[Face]bool{FaceFront: true},
	}
}

// TemplateID returns the template (product) id of a face.
func (v *OrderVars) TemplateID(f Face) int64 {
	switch f {
	case FaceFront:
		return v.FrontTemplateID
	case FaceBack:
		return v.BackTemplateID
	case FaceInside:
		return v.InsideTemplateID
	case FaceEnvelope:
		return v.EnvelopeTemplateID
	}
	return 0
}

// CurrentProductID is the template id of the face being edited.
func (v *OrderVars) CurrentProductID() int64 {
	return v.TemplateID(v.CurrentPage)
}

// ApplyOrderData copies template ids and product info from the backend payload.
func (v *OrderVars) ApplyOrderData(d *OrderData) {
	v.FrontTemplateID = d.FrontTemplateID
	v.BackTemplateID = d.BackTemplateID
	v.InsideTemplateID = d.InsideTemplateID
	v.EnvelopeTemplateID = d.EnvelopeTemplateID
	v.ProductSize = d.ProductSize
	v.ProductType = d.ProductType
}

// FacePayload is the form body of SaveData and AddObject.
type FacePayload struct {
	JSONData    string
	OrderNumber int64
	SessionID   string
	PageNumber  Face
	ProductID   int64
}
