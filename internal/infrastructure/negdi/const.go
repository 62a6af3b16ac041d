package negdi

// NEGDi API endpoints, relative to the environment base URL.
const (
	CreateOrderEndpoint = "ec1000"
	InquiryEndpoint     = "ec1098"
)

// DefaultOrderType - simple redirect checkout.
const DefaultOrderType = "3dsOrder"
