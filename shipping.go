package spoke

// ShippingMethod is the friendly name of a shipping service. On the wire it is
// sent as a two-letter code.
type ShippingMethod string

const (
	FirstClass      ShippingMethod = "FirstClass"
	PriorityMail    ShippingMethod = "PriorityMail"
	TrackedDelivery ShippingMethod = "TrackedDelivery"
	SecondDay       ShippingMethod = "SecondDay"
	Overnight       ShippingMethod = "Overnight"
)

var shippingMethods = []ShippingMethod{FirstClass, PriorityMail, TrackedDelivery, SecondDay, Overnight}

var shippingMethodCodes = map[ShippingMethod]string{
	FirstClass:      "FC",
	PriorityMail:    "PM",
	TrackedDelivery: "TD",
	SecondDay:       "SD",
	Overnight:       "ON",
}

// Code returns the wire code, or "" for an unknown method.
func (m ShippingMethod) Code() string { return shippingMethodCodes[m] }

// ShippingMethods lists the accepted methods.
func ShippingMethods() []ShippingMethod { return append([]ShippingMethod(nil), shippingMethods...) }

func shippingMethodNames() []string {
	methods := ShippingMethods()
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = string(m)
	}
	return out
}
