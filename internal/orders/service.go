package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/seva-innovations/storefront-vault/internal/auth"
	"github.com/seva-innovations/storefront-vault/internal/common"
	"github.com/seva-innovations/storefront-vault/internal/logging"
	"github.com/seva-innovations/storefront-vault/internal/obfuscate"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

// Service is the order codec and store. Admin-gated operations take the
// caller's session explicitly; storage code never reaches out to ambient
// auth state.
type Service struct {
	store  storage.Store
	engine *obfuscate.Engine
	legacy *obfuscate.SessionCipher
	log    logging.Logger

	// now is a test seam.
	now func() time.Time
}

func NewService(store storage.Store, engine *obfuscate.Engine, legacy *obfuscate.SessionCipher, log logging.Logger) *Service {
	return &Service{store: store, engine: engine, legacy: legacy, log: log, now: time.Now}
}

// StoreOrder splits the raw order into its public projection and private
// residual and persists both, keyed by order id (generated when absent,
// upserted when present). Returns the order id.
func (s *Service) StoreOrder(ctx context.Context, raw *RawOrder) (string, error) {
	// the vault key must exist after the first order even if nothing in
	// this one needs obfuscating
	if err := s.engine.EnsureVaultKey(ctx); err != nil {
		return "", err
	}

	orderID := raw.ID
	if orderID == "" {
		orderID = fmt.Sprintf("order_%d", s.now().UnixMilli())
	}

	orderNumber := raw.OrderNumber
	if orderNumber == "" {
		var err error
		orderNumber, err = s.nextOrderNumber(ctx)
		if err != nil {
			return "", err
		}
	}

	orderKey, err := common.MakeRandKeyString(32)
	if err != nil {
		return "", err
	}

	public := projectPublic(raw, orderID, orderNumber)
	private, err := s.sealPrivate(ctx, raw, orderID, orderKey)
	if err != nil {
		return "", err
	}

	if err := s.upsertPublic(ctx, public); err != nil {
		return "", err
	}
	if err := s.putPrivate(ctx, private); err != nil {
		return "", err
	}

	s.log.Info(ctx, "order stored", "order_id", orderID, "order_number", orderNumber)
	return orderID, nil
}

// projectPublic builds the customer-safe view: masked phone, city/state
// only, items reduced to display fields.
func projectPublic(raw *RawOrder, orderID, orderNumber string) *PublicOrder {
	p := &PublicOrder{
		FormatVersion:  formatVersionSplit,
		ID:             orderID,
		OrderNumber:    orderNumber,
		Date:           raw.Date,
		DateTime:       raw.DateTime,
		Status:         raw.Status,
		Total:          raw.Total,
		TotalFormatted: raw.TotalFormatted,
		PaymentStatus:  raw.PaymentStatus,
		PaymentMethod:  "card",
		CreatedAt:      raw.CreatedAt,
		HasPaymentData: raw.Payment != nil,
	}

	if raw.Customer != nil {
		p.Customer.Name = raw.Customer.Name
		p.Customer.Email = raw.Customer.Email
		if raw.Customer.Phone != "" {
			p.Customer.PhoneMasked = "***-***-" + lastN(raw.Customer.Phone, 4)
		}
	}

	if raw.DeliveryAddress != nil {
		p.DeliveryAddress = PublicAddress{
			City:       raw.DeliveryAddress.City,
			State:      raw.DeliveryAddress.State,
			HasAddress: raw.DeliveryAddress.Street != "",
		}
	}

	p.Items = make([]PublicItem, 0, len(raw.Items))
	for _, it := range raw.Items {
		sub := it.SubtotalFormatted
		if sub == "" {
			sub = formatCents(it.Price * int64(it.Quantity))
		}
		p.Items = append(p.Items, PublicItem{Name: it.Name, Quantity: it.Quantity, SubtotalFormatted: sub})
	}

	return p
}

// sealPrivate builds the admin-only residual, obfuscating street, zip,
// phone, and payment sub-fields under the fresh order key.
func (s *Service) sealPrivate(ctx context.Context, raw *RawOrder, orderID, orderKey string) (*PrivateOrderRecord, error) {
	rec := &PrivateOrderRecord{
		OrderID:  orderID,
		OrderKey: orderKey,
		Notes:    raw.Notes,
	}

	protect := func(plaintext string) (string, error) {
		return s.engine.Protect(ctx, plaintext, orderKey)
	}

	if raw.Customer != nil {
		phone, err := protect(raw.Customer.Phone)
		if err != nil {
			return nil, err
		}
		rec.Customer.Phone = phone
	}

	var err error
	if rec.DeliveryAddress, err = s.sealAddress(ctx, raw.DeliveryAddress, orderKey); err != nil {
		return nil, err
	}
	if rec.BillingAddress, err = s.sealAddress(ctx, raw.BillingAddress, orderKey); err != nil {
		return nil, err
	}

	if raw.Payment != nil {
		pay := raw.Payment
		card, err := protect(pay.CardNumber)
		if err != nil {
			return nil, err
		}
		expiry, err := protect(pay.Expiry)
		if err != nil {
			return nil, err
		}
		cvv, err := protect(pay.CVV)
		if err != nil {
			return nil, err
		}
		holder, err := protect(pay.CardHolder)
		if err != nil {
			return nil, err
		}

		lastFour := pay.LastFour
		if lastFour == "" && pay.CardNumber != "" {
			lastFour = lastN(pay.CardNumber, 4)
		}
		if lastFour == "" {
			lastFour = "****"
		}

		rec.PaymentData = &PaymentData{
			CardEncrypted:       card,
			ExpiryEncrypted:     expiry,
			CVVEncrypted:        cvv,
			CardHolderEncrypted: holder,
			LastFour:            lastFour,
			CollectedAt:         s.now().UTC().Format(time.RFC3339),
		}
	}

	return rec, nil
}

func (s *Service) sealAddress(ctx context.Context, addr *RawAddress, orderKey string) (*PrivateAddress, error) {
	if addr == nil {
		return nil, nil
	}
	street, err := s.engine.Protect(ctx, addr.Street, orderKey)
	if err != nil {
		return nil, err
	}
	zip, err := s.engine.Protect(ctx, addr.Zip, orderKey)
	if err != nil {
		return nil, err
	}
	return &PrivateAddress{
		Street:  street,
		City:    addr.City,
		State:   addr.State,
		Zip:     zip,
		Country: addr.Country,
	}, nil
}

// PublicOrders returns the public collection, newest first. Safe for
// customer-facing callers.
func (s *Service) PublicOrders(ctx context.Context) ([]PublicOrder, error) {
	return s.publicList(ctx)
}

// OrdersByEmail filters the public collection by customer email,
// case-insensitively. No admin requirement; the vault is never touched.
func (s *Service) OrdersByEmail(ctx context.Context, email string) ([]PublicOrder, error) {
	list, err := s.publicList(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PublicOrder, 0)
	for _, o := range list {
		if o.Customer.Email != "" && strings.EqualFold(o.Customer.Email, email) {
			out = append(out, o)
		}
	}
	return out, nil
}

// FullOrder reassembles the admin view of one order. It fails closed:
// a nil or non-admin session yields nil. A public order with no vault
// record (legacy data) is returned in degraded form, public fields only.
func (s *Service) FullOrder(ctx context.Context, orderID string, sess *auth.Session) (*FullOrder, error) {
	if !sess.IsAdmin() {
		return nil, nil
	}

	public, err := s.findPublic(ctx, orderID)
	if err != nil || public == nil {
		return nil, err
	}

	private, err := s.findPrivate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if private == nil {
		return degradedFullOrder(public), nil
	}

	orderKey := private.OrderKey
	reveal := func(encoded string) string {
		return s.engine.Reveal(ctx, encoded, orderKey, sess)
	}

	full := &FullOrder{
		ID:             public.ID,
		OrderNumber:    public.OrderNumber,
		Date:           public.Date,
		DateTime:       public.DateTime,
		Status:         public.Status,
		Customer: FullCustomer{
			Name:  public.Customer.Name,
			Email: public.Customer.Email,
			Phone: reveal(private.Customer.Phone),
		},
		Items:          public.Items,
		Total:          public.Total,
		TotalFormatted: public.TotalFormatted,
		PaymentStatus:  public.PaymentStatus,
		CreatedAt:      public.CreatedAt,
		Notes:          private.Notes,
	}

	if private.DeliveryAddress != nil {
		full.DeliveryAddress = &RawAddress{
			Street:  reveal(private.DeliveryAddress.Street),
			City:    private.DeliveryAddress.City,
			State:   private.DeliveryAddress.State,
			Zip:     reveal(private.DeliveryAddress.Zip),
			Country: private.DeliveryAddress.Country,
		}
	}

	if private.PaymentData != nil {
		// payment sub-fields stay encrypted; the order key rides along so
		// the caller can decrypt individual fields on demand
		pd := *private.PaymentData
		pd.OrderKey = orderKey
		full.PaymentData = &pd
	}

	return full, nil
}

func degradedFullOrder(public *PublicOrder) *FullOrder {
	return &FullOrder{
		ID:          public.ID,
		OrderNumber: public.OrderNumber,
		Date:        public.Date,
		DateTime:    public.DateTime,
		Status:      public.Status,
		Customer: FullCustomer{
			Name:  public.Customer.Name,
			Email: public.Customer.Email,
			Phone: public.Customer.PhoneMasked,
		},
		DeliveryAddress: &RawAddress{
			City:  public.DeliveryAddress.City,
			State: public.DeliveryAddress.State,
		},
		Items:          public.Items,
		Total:          public.Total,
		TotalFormatted: public.TotalFormatted,
		PaymentStatus:  public.PaymentStatus,
		CreatedAt:      public.CreatedAt,
	}
}

// DecryptPaymentField reveals one payment sub-field (card, expiry, cvv, or
// holder) on demand. Denials and absences are reported as sentinel values,
// never as errors, so the admin UI can render them directly.
func (s *Service) DecryptPaymentField(ctx context.Context, orderID, field string, sess *auth.Session) string {
	if !sess.IsAdmin() {
		return obfuscate.AccessDenied
	}

	private, err := s.findPrivate(ctx, orderID)
	if err != nil {
		s.log.Warn(ctx, "failed to read vault record", "order_id", orderID, "error", err)
		return NoData
	}
	if private == nil || private.PaymentData == nil {
		return NoData
	}

	var encoded string
	switch field {
	case "card":
		encoded = private.PaymentData.CardEncrypted
	case "expiry":
		encoded = private.PaymentData.ExpiryEncrypted
	case "cvv":
		encoded = private.PaymentData.CVVEncrypted
	case "holder":
		encoded = private.PaymentData.CardHolderEncrypted
	default:
		return NoData
	}
	if encoded == "" {
		return NoData
	}

	return s.engine.Reveal(ctx, encoded, private.OrderKey, sess)
}

// ClearPaymentData nulls the payment sub-object after processing, leaving
// the rest of the private record intact, and flips the public order's
// payment flag. Admin-only, idempotent.
func (s *Service) ClearPaymentData(ctx context.Context, orderID string, sess *auth.Session) error {
	if !sess.IsAdmin() {
		return common.ErrNotAuthorized
	}

	err := s.store.Update(ctx, storage.RegionSecureVault, func(old []byte) ([]byte, error) {
		vault, err := decodeVault(old)
		if err != nil {
			return nil, err
		}
		rec, ok := vault[orderID]
		if !ok {
			return old, nil
		}
		rec.PaymentData = nil
		rec.Notes = rec.Notes + "\nPayment data cleared: " + s.now().Format("2006-01-02 15:04:05")
		vault[orderID] = rec
		return json.Marshal(vault)
	})
	if err != nil {
		return err
	}

	return s.store.Update(ctx, storage.RegionPublicOrders, func(old []byte) ([]byte, error) {
		list, err := decodePublic(old)
		if err != nil {
			return nil, err
		}
		for i := range list {
			if list[i].ID == orderID {
				list[i].HasPaymentData = false
			}
		}
		return json.Marshal(list)
	})
}

// UpdateOrderStatus sets the status of a public order and applies optional
// extras (payment status, paid-at, tracking number). The vault is not
// involved.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, status string, extra *StatusUpdate) (*PublicOrder, error) {
	var updated *PublicOrder
	err := s.store.Update(ctx, storage.RegionPublicOrders, func(old []byte) ([]byte, error) {
		list, err := decodePublic(old)
		if err != nil {
			return nil, err
		}
		for i := range list {
			if list[i].ID != orderID {
				continue
			}
			list[i].Status = status
			if extra != nil {
				if extra.PaymentStatus != "" {
					list[i].PaymentStatus = extra.PaymentStatus
				}
				if extra.PaidAt != "" {
					list[i].PaidAt = extra.PaidAt
				}
				if extra.TrackingNumber != "" {
					list[i].TrackingNumber = extra.TrackingNumber
				}
			}
			o := list[i]
			updated = &o
			break
		}
		if updated == nil {
			return nil, fmt.Errorf("order %q: %w", orderID, common.ErrNotFound)
		}
		return json.Marshal(list)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOrder removes both halves of an order. Admin-only; deleting an
// unknown id is a no-op.
func (s *Service) DeleteOrder(ctx context.Context, orderID string, sess *auth.Session) error {
	if !sess.IsAdmin() {
		return common.ErrNotAuthorized
	}

	err := s.store.Update(ctx, storage.RegionPublicOrders, func(old []byte) ([]byte, error) {
		list, err := decodePublic(old)
		if err != nil {
			return nil, err
		}
		kept := list[:0]
		for _, o := range list {
			if o.ID != orderID {
				kept = append(kept, o)
			}
		}
		return json.Marshal(kept)
	})
	if err != nil {
		return err
	}

	return s.store.Update(ctx, storage.RegionSecureVault, func(old []byte) ([]byte, error) {
		vault, err := decodeVault(old)
		if err != nil {
			return nil, err
		}
		delete(vault, orderID)
		return json.Marshal(vault)
	})
}

// ---- collection plumbing ----

func decodePublic(raw []byte) ([]PublicOrder, error) {
	if len(raw) == 0 {
		return []PublicOrder{}, nil
	}
	var list []PublicOrder
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode public orders: %w", err)
	}
	return list, nil
}

func decodeVault(raw []byte) (map[string]PrivateOrderRecord, error) {
	if len(raw) == 0 {
		return map[string]PrivateOrderRecord{}, nil
	}
	var vault map[string]PrivateOrderRecord
	if err := json.Unmarshal(raw, &vault); err != nil {
		return nil, fmt.Errorf("failed to decode vault: %w", err)
	}
	return vault, nil
}

func (s *Service) publicList(ctx context.Context) ([]PublicOrder, error) {
	raw, err := s.store.Get(ctx, storage.RegionPublicOrders)
	if err != nil {
		return nil, err
	}
	return decodePublic(raw)
}

func (s *Service) findPublic(ctx context.Context, orderID string) (*PublicOrder, error) {
	list, err := s.publicList(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == orderID {
			return &list[i], nil
		}
	}
	return nil, nil
}

func (s *Service) findPrivate(ctx context.Context, orderID string) (*PrivateOrderRecord, error) {
	raw, err := s.store.Get(ctx, storage.RegionSecureVault)
	if err != nil {
		return nil, err
	}
	vault, err := decodeVault(raw)
	if err != nil {
		return nil, err
	}
	rec, ok := vault[orderID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// upsertPublic replaces an existing order in place or prepends a new one,
// keeping the collection newest-first.
func (s *Service) upsertPublic(ctx context.Context, order *PublicOrder) error {
	return s.store.Update(ctx, storage.RegionPublicOrders, func(old []byte) ([]byte, error) {
		list, err := decodePublic(old)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range list {
			if list[i].ID == order.ID {
				list[i] = *order
				replaced = true
				break
			}
		}
		if !replaced {
			list = append([]PublicOrder{*order}, list...)
		}
		return json.Marshal(list)
	})
}

func (s *Service) putPrivate(ctx context.Context, rec *PrivateOrderRecord) error {
	return s.store.Update(ctx, storage.RegionSecureVault, func(old []byte) ([]byte, error) {
		vault, err := decodeVault(old)
		if err != nil {
			return nil, err
		}
		vault[rec.OrderID] = *rec
		return json.Marshal(vault)
	})
}

// nextOrderNumber advances the legacy order counter and renders the
// original SEVA-prefixed number form.
func (s *Service) nextOrderNumber(ctx context.Context) (string, error) {
	var n int
	err := s.store.Update(ctx, storage.RegionOrderCounter, func(old []byte) ([]byte, error) {
		n = 1000
		if len(old) > 0 {
			if v, err := strconv.Atoi(string(old)); err == nil {
				n = v
			}
		}
		n++
		return []byte(strconv.Itoa(n)), nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SEVA-%d", n), nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
