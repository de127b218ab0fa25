package template

import (
	"fmt"
	"strings"

	"lexedit-backend/internal/models"
)

// URLs holds the asset locations objects are resolved against.
type URLs struct {
	Images  string
	WebData string
	Version string
}

// ImageFolder maps an object type to its image folder. Some types are
// never selectable regardless of the object's own flags.
func ImageFolder(objectType int) (folder string, selectable bool) {
	switch objectType {
	case models.ObjectTypeSignature, models.ObjectTypeSignatureAlt:
		return "Signatures", true
	case models.ObjectTypePersonalPhoto:
		return "PersonalPhotos", true
	case models.ObjectTypeQRCode:
		return "QRCodes", true
	case models.ObjectTypeStaticLogo:
		return "Logos", false
	case models.ObjectTypeLogo:
		return "Logos", true
	case models.ObjectTypePostalImage, models.ObjectTypeDesignPhoto:
		return "OwnDesigns", true
	case models.ObjectTypeArtwork:
		return "Artwork", true
	case models.ObjectTypeDrivingMap:
		return "Artwork", false
	}
	return "Unknown", true
}

func isCouponPlaceholder(text string) bool {
	return text == "[Offer area]" || text == "Click here to add Coupon One" || text == "Click here to add Coupon Two"
}

// ImageURL resolves the source of an image object.
func (u URLs) ImageURL(objectType int, text string) string {
	folder, _ := ImageFolder(objectType)
	base := u.Images
	if folder == "Unknown" {
		base += fmt.Sprintf("Unknown Object Type: (%d)", objectType)
	} else {
		base += folder + "/"
	}

	switch {
	case text == "" && objectType == models.ObjectTypeQRCode:
		return base + "Default/1.png"
	case text == "" || isCouponPlaceholder(text):
		return base + "M3/1.png?v=" + u.Version
	}
	return base + strings.Replace(text, `\`, "/", 1) + "-300.png"
}

// CouponCode normalizes a coupon text into the code its image is stored under.
func CouponCode(text string) string {
	code := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	code = strings.Replace(code, "  ", " ", 1)
	code = strings.Replace(code, "  ", " ", 1)
	if strings.ToUpper(code) == "[OFFER AREA]" || isCouponPlaceholder(code) {
		return "100000t"
	}
	return code
}

// CouponURL resolves the image of a coupon code.
func (u URLs) CouponURL(code string) string {
	return u.WebData + "Coupons/" + code + ".png"
}

// CouponSize returns "L" or "S" for a coupon object, or "" when the object
// name does not identify a size.
func CouponSize(objectName string, product models.ProductType) string {
	if objectName == "LargeCoupon" || product.LargeCoupons() {
		return "L"
	}
	if objectName == "SmallCoupon1" || objectName == "SmallCoupon2" {
		return "S"
	}
	return ""
}
