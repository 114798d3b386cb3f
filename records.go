package spoke

import (
	"context"
	"reflect"

	"github.com/reoring/spoke/validate"
	"github.com/reoring/spoke/xmltree"
)

// OrderDateLayout is used to render a time.Time given as OrderInfo.OrderDate.
const OrderDateLayout = "01/02/2006"

// Image references an image by URL. It is used for print, QC, logo and pack
// slip images.
type Image struct {
	ImageType string // jpg, png, ...
	URL       string
}

var imageRecord = validate.NewRecord(
	validate.Object("Image").
		Field("ImageType", validate.Text()).Required().
		Field("Url", validate.Text()).Required().
		MustBuild(),
	func(v validate.Values) *Image {
		return &Image{ImageType: v.Text("ImageType"), URL: v.Text("Url")}
	},
)

// NewImage validates params (ImageType, Url) and returns an Image.
func NewImage(ctx context.Context, params map[string]any) (*Image, error) {
	return imageRecord.New(ctx, params)
}

// TreeFields lists the child elements of an Image.
func (i *Image) TreeFields() []xmltree.Field {
	return fieldsOf(imageRecord.Schema(), nil).
		add("ImageType", i.ImageType).
		add("Url", i.URL).
		list()
}

// CommentType says who a comment is addressed to.
type CommentType string

const (
	CommentPrinter   CommentType = "Printer"
	CommentPackaging CommentType = "Packaging"
)

// Comment is a free-form note attached to an order or a case.
type Comment struct {
	Type        CommentType
	CommentText string
}

var commentRecord = validate.NewRecord(
	validate.Object("Comment").
		Field("Type", validate.Enum(string(CommentPrinter), string(CommentPackaging))).Required().
		Field("CommentText", validate.Text()).Required().
		MustBuild(),
	func(v validate.Values) *Comment {
		return &Comment{Type: CommentType(v.Text("Type")), CommentText: v.Text("CommentText")}
	},
)

// NewComment validates params (Type, CommentText) and returns a Comment.
func NewComment(ctx context.Context, params map[string]any) (*Comment, error) {
	return commentRecord.New(ctx, params)
}

// TreeFields lists the child elements of a Comment.
func (c *Comment) TreeFields() []xmltree.Field {
	return fieldsOf(commentRecord.Schema(), nil).
		add("Type", string(c.Type)).
		add("CommentText", c.CommentText).
		list()
}

// PackSlipCustomInfo holds up to six free text lines printed on the pack slip.
type PackSlipCustomInfo struct {
	Text1, Text2, Text3, Text4, Text5, Text6 string

	blank keySet
}

var packSlipCustomInfoRecord = validate.NewRecord(
	validate.Object("PackSlipCustomInfo").
		Field("Text1", validate.Text()).Optional().
		Field("Text2", validate.Text()).Optional().
		Field("Text3", validate.Text()).Optional().
		Field("Text4", validate.Text()).Optional().
		Field("Text5", validate.Text()).Optional().
		Field("Text6", validate.Text()).Optional().
		MustBuild(),
	func(v validate.Values) *PackSlipCustomInfo {
		return &PackSlipCustomInfo{
			Text1: v.Text("Text1"), Text2: v.Text("Text2"), Text3: v.Text("Text3"),
			Text4: v.Text("Text4"), Text5: v.Text("Text5"), Text6: v.Text("Text6"),
			blank: blankKeys(v),
		}
	},
)

// NewPackSlipCustomInfo validates params (Text1 to Text6, all optional) and
// returns a PackSlipCustomInfo.
func NewPackSlipCustomInfo(ctx context.Context, params map[string]any) (*PackSlipCustomInfo, error) {
	return packSlipCustomInfoRecord.New(ctx, params)
}

// TreeFields lists the supplied text lines.
func (p *PackSlipCustomInfo) TreeFields() []xmltree.Field {
	return fieldsOf(packSlipCustomInfoRecord.Schema(), p.blank).
		opt("Text1", p.Text1).
		opt("Text2", p.Text2).
		opt("Text3", p.Text3).
		opt("Text4", p.Text4).
		opt("Text5", p.Text5).
		opt("Text6", p.Text6).
		list()
}

// Prices carries pricing shown to the end customer. Amounts are in cents.
type Prices struct {
	DisplayOnPackingSlip string // Yes or No
	CurrencySymbol       string
	TaxCents             string
	ShippingCents        string
	DiscountCents        string

	blank keySet
}

var pricesRecord = validate.NewRecord(
	validate.Object("Prices").
		Field("DisplayOnPackingSlip", validate.Enum("Yes", "No")).Optional().
		Field("CurrencySymbol", validate.Text()).Optional().
		Field("TaxCents", validate.Text()).Optional().
		Field("ShippingCents", validate.Text()).Optional().
		Field("DiscountCents", validate.Text()).Optional().
		MustBuild(),
	func(v validate.Values) *Prices {
		return &Prices{
			DisplayOnPackingSlip: v.Text("DisplayOnPackingSlip"),
			CurrencySymbol:       v.Text("CurrencySymbol"),
			TaxCents:             v.Text("TaxCents"),
			ShippingCents:        v.Text("ShippingCents"),
			DiscountCents:        v.Text("DiscountCents"),
			blank:                blankKeys(v),
		}
	},
)

// NewPrices validates params and returns Prices. Every field is optional.
func NewPrices(ctx context.Context, params map[string]any) (*Prices, error) {
	return pricesRecord.New(ctx, params)
}

// TreeFields lists the supplied price fields.
func (p *Prices) TreeFields() []xmltree.Field {
	return fieldsOf(pricesRecord.Schema(), p.blank).
		opt("DisplayOnPackingSlip", p.DisplayOnPackingSlip).
		opt("CurrencySymbol", p.CurrencySymbol).
		opt("TaxCents", p.TaxCents).
		opt("ShippingCents", p.ShippingCents).
		opt("DiscountCents", p.DiscountCents).
		list()
}

// OrderInfo is the recipient and order metadata. State should repeat the city
// for countries without states or provinces.
type OrderInfo struct {
	FirstName               string
	LastName                string
	Address1                string
	Address2                string
	City                    string
	State                   string
	PostalCode              string
	CountryCode             string
	OrderDate               string
	PhoneNumber             string
	PurchaseOrderNumber     string
	GiftMessage             string
	PackSlipCustomInfo      *PackSlipCustomInfo
	Prices                  *Prices
	ShippingLabelReference1 string
	ShippingLabelReference2 string

	blank keySet
}

var orderInfoRecord = validate.NewRecord(
	validate.Object("OrderInfo").
		Field("FirstName", validate.Text()).Required().
		Field("LastName", validate.Text()).Required().
		Field("Address1", validate.Text()).Required().
		Field("Address2", validate.Text()).Optional().
		Field("City", validate.Text()).Required().
		Field("State", validate.Text()).Required().
		Field("PostalCode", validate.Text()).Required().
		Field("CountryCode", validate.Text()).Required().
		Field("OrderDate", validate.Date(OrderDateLayout)).Required().
		Field("PhoneNumber", validate.Text()).Required().
		Field("PurchaseOrderNumber", validate.Text()).Optional().
		Field("GiftMessage", validate.Text()).Optional().
		Field("PackSlipCustomInfo", packSlipCustomInfoRecord).Optional().
		Field("Prices", pricesRecord).Optional().
		Field("ShippingLabelReference1", validate.Text()).Optional().
		Field("ShippingLabelReference2", validate.Text()).Optional().
		MustBuild(),
	func(v validate.Values) *OrderInfo {
		return &OrderInfo{
			FirstName:               v.Text("FirstName"),
			LastName:                v.Text("LastName"),
			Address1:                v.Text("Address1"),
			Address2:                v.Text("Address2"),
			City:                    v.Text("City"),
			State:                   v.Text("State"),
			PostalCode:              v.Text("PostalCode"),
			CountryCode:             v.Text("CountryCode"),
			OrderDate:               v.Text("OrderDate"),
			PhoneNumber:             v.Text("PhoneNumber"),
			PurchaseOrderNumber:     v.Text("PurchaseOrderNumber"),
			GiftMessage:             v.Text("GiftMessage"),
			PackSlipCustomInfo:      validate.Get[*PackSlipCustomInfo](v, "PackSlipCustomInfo"),
			Prices:                  validate.Get[*Prices](v, "Prices"),
			ShippingLabelReference1: v.Text("ShippingLabelReference1"),
			ShippingLabelReference2: v.Text("ShippingLabelReference2"),
			blank:                   blankKeys(v),
		}
	},
)

// NewOrderInfo validates params and returns an OrderInfo. OrderDate may be a
// time.Time or a preformatted string.
func NewOrderInfo(ctx context.Context, params map[string]any) (*OrderInfo, error) {
	return orderInfoRecord.New(ctx, params)
}

// TreeFields lists the child elements of an OrderInfo. Optional fields are
// written when they were supplied, even with an empty value.
func (o *OrderInfo) TreeFields() []xmltree.Field {
	return fieldsOf(orderInfoRecord.Schema(), o.blank).
		add("FirstName", o.FirstName).
		add("LastName", o.LastName).
		add("Address1", o.Address1).
		opt("Address2", o.Address2).
		add("City", o.City).
		add("State", o.State).
		add("PostalCode", o.PostalCode).
		add("CountryCode", o.CountryCode).
		add("OrderDate", o.OrderDate).
		add("PhoneNumber", o.PhoneNumber).
		opt("PurchaseOrderNumber", o.PurchaseOrderNumber).
		opt("GiftMessage", o.GiftMessage).
		opt("PackSlipCustomInfo", o.PackSlipCustomInfo).
		opt("Prices", o.Prices).
		opt("ShippingLabelReference1", o.ShippingLabelReference1).
		opt("ShippingLabelReference2", o.ShippingLabelReference2).
		list()
}

// Case is one printed item of an order.
type Case struct {
	CaseID         string
	CaseType       string // see CaseTypes
	Quantity       int
	PrintImage     *Image
	QcImage        *Image
	Prices         *Prices
	CurrencySymbol string
	RetailCents    string
	DiscountCents  string
	Comments       []*Comment

	blank keySet
}

var caseRecord = validate.NewRecord(
	validate.Object("Case").
		Field("CaseId", validate.Text()).Required().
		Field("CaseType", validate.Enum(caseCatalog.codes...)).Required().
		Field("Quantity", validate.Int()).Required().
		Field("PrintImage", imageRecord).Required().
		Field("QcImage", imageRecord).Optional().
		Field("Prices", pricesRecord).Optional().
		Field("CurrencySymbol", validate.Text()).Optional().
		Field("RetailCents", validate.Text()).Optional().
		Field("DiscountCents", validate.Text()).Optional().
		Field("Comments", validate.Array(commentRecord)).ElementTag("Comment").Optional().
		MustBuild(),
	func(v validate.Values) *Case {
		return &Case{
			CaseID:         v.Text("CaseId"),
			CaseType:       v.Text("CaseType"),
			Quantity:       v.Int("Quantity"),
			PrintImage:     validate.Get[*Image](v, "PrintImage"),
			QcImage:        validate.Get[*Image](v, "QcImage"),
			Prices:         validate.Get[*Prices](v, "Prices"),
			CurrencySymbol: v.Text("CurrencySymbol"),
			RetailCents:    v.Text("RetailCents"),
			DiscountCents:  v.Text("DiscountCents"),
			Comments:       validate.List[*Comment](v, "Comments"),
			blank:          blankKeys(v),
		}
	},
)

// NewCase validates params and returns a Case. CaseType must be one of
// CaseTypes and Comments, when given, must not be empty.
func NewCase(ctx context.Context, params map[string]any) (*Case, error) {
	return caseRecord.New(ctx, params)
}

// TreeFields lists the child elements of a Case.
func (c *Case) TreeFields() []xmltree.Field {
	return fieldsOf(caseRecord.Schema(), c.blank).
		add("CaseId", c.CaseID).
		add("CaseType", c.CaseType).
		add("Quantity", c.Quantity).
		add("PrintImage", c.PrintImage).
		opt("QcImage", c.QcImage).
		opt("Prices", c.Prices).
		opt("CurrencySymbol", c.CurrencySymbol).
		opt("RetailCents", c.RetailCents).
		opt("DiscountCents", c.DiscountCents).
		opt("Comments", c.Comments).
		list()
}

// keySet names optional keys that were supplied with an empty value.
type keySet map[string]struct{}

// blankKeys returns the keys of v holding "", or nil when there are none.
func blankKeys(v validate.Values) keySet {
	var ks keySet
	for k, val := range v {
		if s, ok := val.(string); ok && s == "" {
			if ks == nil {
				ks = keySet{}
			}
			ks[k] = struct{}{}
		}
	}
	return ks
}

// treeFields collects the children of a record element, taking element tags
// of list fields from the record schema.
type treeFields struct {
	schema *validate.Schema
	blank  keySet
	out    []xmltree.Field
}

func fieldsOf(s *validate.Schema, blank keySet) *treeFields {
	return &treeFields{schema: s, blank: blank}
}

func (t *treeFields) add(name string, v any) *treeFields {
	t.out = append(t.out, xmltree.Field{Name: name, Value: v, ElementTag: t.schema.ElementTag(name)})
	return t
}

// opt adds the field unless v is empty and name was not supplied blank.
func (t *treeFields) opt(name string, v any) *treeFields {
	if _, kept := t.blank[name]; isEmpty(v) && !kept {
		return t
	}
	return t.add(name, v)
}

func (t *treeFields) list() []xmltree.Field { return t.out }

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
