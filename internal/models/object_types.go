package models

// ResourceType classifies the role of a scene object.
type ResourceType string

const (
	ResourceText        ResourceType = "T"
	ResourceBlockText   ResourceType = "BT"
	ResourceFrontCoupon ResourceType = "FC"
	ResourceShape       ResourceType = "S"
	ResourceCoupon      ResourceType = "C"
	ResourceBackCoupon  ResourceType = "BC"
	ResourceImage       ResourceType = "I"
)

// IsText reports whether objects of this resource type are built as text boxes.
func (r ResourceType) IsText() bool {
	return r == ResourceText || r == ResourceBlockText || r == ResourceFrontCoupon || r == ResourceBackCoupon
}

// Object type codes used by the order backend.
const (
	ObjectTypeNonEditableText   = 2
	ObjectTypeSignature         = 5
	ObjectTypePersonalPhoto     = 6
	ObjectTypeLogo              = 7
	ObjectTypeLine              = 25
	ObjectTypeSignatureAlt      = 42
	ObjectTypeRectangle         = 45
	ObjectTypeDesignPhoto       = 57
	ObjectTypePostalImage       = 103
	ObjectTypeStaticLogo        = 122
	ObjectTypeArtwork           = 123
	ObjectTypeQRCode            = 124
	ObjectTypeCircle            = 125
	ObjectTypeDrivingMap        = 143
	ObjectTypeOrderNumber       = 149
	ObjectTypeStaticRectangle   = 150
	ObjectTypeEnvelopeAddressee = 151
)

// ProductType codes that change editor behaviour.
type ProductType int

const (
	ProductPostcard          ProductType = 1
	ProductDoorHangers       ProductType = 2
	ProductSmallDoorHangers  ProductType = 3
	ProductMediumDoorHangers ProductType = 4
	ProductSelfMailers       ProductType = 5
	ProductMagnet            ProductType = 6
	ProductCalendar          ProductType = 7
)

// LargeCoupons reports whether every coupon on this product is a large coupon.
func (p ProductType) LargeCoupons() bool {
	switch p {
	case ProductDoorHangers, ProductSmallDoorHangers, ProductMediumDoorHangers, ProductSelfMailers:
		return true
	}
	return false
}

// BackOfficeSession is the session id used by staff editing an order on a customer's behalf.
const BackOfficeSession = "BackOfficeEdit"
