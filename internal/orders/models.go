// Package orders implements the split order store: a customer-visible
// public projection and an admin-only private residual holding obfuscated
// address and payment fragments, persisted as two parallel regions keyed by
// order id.
package orders

// Order lifecycle statuses.
const (
	StatusPending        = "pending"
	StatusPendingPayment = "pending_payment"
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment statuses recorded from the checkout collaborator.
const (
	PaymentAwaitingProcessing = "awaiting_processing"
	PaymentPaid               = "paid"
)

// NoData is returned by field reads when a record or sub-field is absent,
// distinct from a denied read.
const NoData = "[No Data]"

// formatVersionSplit tags public orders written in the split public/private
// format. Legacy flat records carry no version field.
const formatVersionSplit = 2

// RawOrder is the payload the checkout collaborator supplies to StoreOrder.
type RawOrder struct {
	ID              string           `json:"id,omitempty"`
	OrderNumber     string           `json:"orderNumber"`
	Date            string           `json:"date"`
	DateTime        string           `json:"dateTime"`
	Status          string           `json:"status"`
	Customer        *RawCustomer     `json:"customer"`
	DeliveryAddress *RawAddress      `json:"deliveryAddress"`
	BillingAddress  *RawAddress      `json:"billingAddress,omitempty"`
	Items           []RawItem        `json:"items"`
	Total           int64            `json:"total"`
	TotalFormatted  string           `json:"totalFormatted"`
	PaymentStatus   string           `json:"paymentStatus"`
	Payment         *PaymentFragment `json:"payment,omitempty"`
	CreatedAt       string           `json:"createdAt"`
	Notes           string           `json:"notes,omitempty"`
}

type RawCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type RawAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
}

type RawItem struct {
	ID                string `json:"id,omitempty"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Price             int64  `json:"price"`
	PriceFormatted    string `json:"priceFormatted,omitempty"`
	Quantity          int    `json:"quantity"`
	Subtotal          int64  `json:"subtotal,omitempty"`
	SubtotalFormatted string `json:"subtotalFormatted,omitempty"`
}

// PaymentFragment is the sensitive card data collected at checkout.
type PaymentFragment struct {
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	CardHolder string `json:"cardHolder"`
	LastFour   string `json:"lastFour,omitempty"`
}

// PublicOrder is the customer-safe projection: no street, no zip, masked
// phone, items reduced to display fields. Stored newest-first in the public
// collection.
type PublicOrder struct {
	FormatVersion   int            `json:"formatVersion"`
	ID              string         `json:"id"`
	OrderNumber     string         `json:"orderNumber"`
	Date            string         `json:"date"`
	DateTime        string         `json:"dateTime"`
	Status          string         `json:"status"`
	Customer        PublicCustomer `json:"customer"`
	DeliveryAddress PublicAddress  `json:"deliveryAddress"`
	Items           []PublicItem   `json:"items"`
	Total           int64          `json:"total"`
	TotalFormatted  string         `json:"totalFormatted"`
	PaymentStatus   string         `json:"paymentStatus"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaidAt          string         `json:"paidAt,omitempty"`
	TrackingNumber  string         `json:"trackingNumber,omitempty"`
	CreatedAt       string         `json:"createdAt"`
	HasPaymentData  bool           `json:"hasPaymentData"`
}

type PublicCustomer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneMasked string `json:"phoneMasked"`
}

type PublicAddress struct {
	City       string `json:"city"`
	State      string `json:"state"`
	HasAddress bool   `json:"hasAddress"`
}

type PublicItem struct {
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	SubtotalFormatted string `json:"subtotalFormatted"`
}

// PrivateOrderRecord is the admin-only residual for one order, stored in
// the vault region under the order id. Street, zip, phone, and payment
// sub-fields go through the obfuscation engine with the per-order key.
type PrivateOrderRecord struct {
	OrderID         string           `json:"orderId"`
	OrderKey        string           `json:"orderKey"`
	Customer        PrivateCustomer  `json:"customer"`
	DeliveryAddress *PrivateAddress  `json:"deliveryAddress"`
	BillingAddress  *PrivateAddress  `json:"billingAddress"`
	PaymentData     *PaymentData     `json:"paymentData"`
	Notes           string           `json:"notes"`
}

type PrivateCustomer struct {
	Phone string `json:"phone"` // obfuscated
}

type PrivateAddress struct {
	Street  string `json:"street"` // obfuscated
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"` // obfuscated
	Country string `json:"country,omitempty"`
}

// PaymentData holds the obfuscated payment sub-fields plus the plaintext
// last-four kept for receipt display. On a FullOrder read the sub-fields
// stay encrypted and OrderKey is attached so a caller can decrypt fields
// individually on demand.
type PaymentData struct {
	CardEncrypted       string `json:"cardEncrypted"`
	ExpiryEncrypted     string `json:"expiryEncrypted"`
	CVVEncrypted        string `json:"cvvEncrypted"`
	CardHolderEncrypted string `json:"cardHolderEncrypted"`
	LastFour            string `json:"lastFour"`
	CollectedAt         string `json:"collectedAt"`
	OrderKey            string `json:"orderKey,omitempty"`
}

// FullOrder is the admin view: public fields merged with the decrypted
// private residual.
type FullOrder struct {
	ID              string       `json:"id"`
	OrderNumber     string       `json:"orderNumber"`
	Date            string       `json:"date"`
	DateTime        string       `json:"dateTime"`
	Status          string       `json:"status"`
	Customer        FullCustomer `json:"customer"`
	DeliveryAddress *RawAddress  `json:"deliveryAddress"`
	Items           []PublicItem `json:"items"`
	Total           int64        `json:"total"`
	TotalFormatted  string       `json:"totalFormatted"`
	PaymentStatus   string       `json:"paymentStatus"`
	PaymentData     *PaymentData `json:"paymentData"`
	CreatedAt       string       `json:"createdAt"`
	Notes           string       `json:"notes"`
}

type FullCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// StatusUpdate carries the optional extras of a status transition.
type StatusUpdate struct {
	PaymentStatus  string `json:"paymentStatus,omitempty"`
	PaidAt         string `json:"paidAt,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

// LegacyOrder is the pre-migration flat record. Payment data in this format
// was protected with the session cipher and is not recoverable; only the
// plaintext last-four survives migration.
type LegacyOrder struct {
	ID              string             `json:"id"`
	OrderNumber     string             `json:"orderNumber"`
	Timestamp       string             `json:"timestamp,omitempty"`
	Date            string             `json:"date"`
	DateTime        string             `json:"dateTime,omitempty"`
	Status          string             `json:"status"`
	Customer        RawCustomer        `json:"customer"`
	DeliveryAddress *RawAddress        `json:"deliveryAddress,omitempty"`
	BillingAddress  *RawAddress        `json:"billingAddress,omitempty"`
	Items           []RawItem          `json:"items"`
	Subtotal        int64              `json:"subtotal,omitempty"`
	Shipping        int64              `json:"shipping,omitempty"`
	Tax             int64              `json:"tax,omitempty"`
	Total           int64              `json:"total"`
	TotalFormatted  string             `json:"totalFormatted,omitempty"`
	PaymentStatus   string             `json:"paymentStatus,omitempty"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
	PaymentData     *LegacyPaymentData `json:"paymentData,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	TrackingNumber  string             `json:"trackingNumber,omitempty"`
	CreatedAt       string             `json:"createdAt,omitempty"`
}

type LegacyPaymentData struct {
	LastFour      string `json:"lastFour,omitempty"`
	CardEncrypted string `json:"cardEncrypted,omitempty"`
}
