package orders

import (
	"context"
	"encoding/json"

	"github.com/seva-innovations/storefront-vault/internal/obfuscate"
	"github.com/seva-innovations/storefront-vault/internal/storage"
)

// MigrateLegacyOrders moves the flat pre-split order collection into the
// public/vault pair. The legacy region is removed only after every order
// went through StoreOrder. Runs at startup; all exits are safe to retry.
//
// If the public collection already holds orders the migration assumes a
// previous run completed and leaves the legacy region alone.
func (s *Service) MigrateLegacyOrders(ctx context.Context) error {
	raw, err := s.store.Get(ctx, storage.RegionLegacyOrders)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var legacy []LegacyOrder
	if err := json.Unmarshal(raw, &legacy); err != nil {
		// leave the blob in place so nothing is lost; a later release can
		// still attempt recovery
		s.log.Warn(ctx, "legacy order collection is malformed, skipping migration", "error", err)
		return nil
	}
	if len(legacy) == 0 {
		return nil
	}

	existing, err := s.publicList(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range legacy {
		raw := legacyToRaw(&legacy[i])
		s.recoverLegacyCard(ctx, &legacy[i], raw)
		if _, err := s.StoreOrder(ctx, raw); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, storage.RegionLegacyOrders); err != nil {
		return err
	}

	s.log.Info(ctx, "migrated legacy orders", "count", len(legacy))
	return nil
}

// legacyToRaw rebuilds a StoreOrder payload from a flat legacy record.
// Legacy card sub-fields were bound to a long-gone browser session and
// cannot be decrypted, so only the last-four is carried forward as a
// placeholder payment fragment.
func legacyToRaw(lo *LegacyOrder) *RawOrder {
	raw := &RawOrder{
		ID:              lo.ID,
		OrderNumber:     lo.OrderNumber,
		Date:            lo.Date,
		DateTime:        lo.DateTime,
		Status:          lo.Status,
		Customer:        &lo.Customer,
		DeliveryAddress: lo.DeliveryAddress,
		BillingAddress:  lo.BillingAddress,
		Items:           lo.Items,
		Total:           lo.Total,
		TotalFormatted:  lo.TotalFormatted,
		PaymentStatus:   lo.PaymentStatus,
		CreatedAt:       lo.CreatedAt,
		Notes:           "Migrated from old system",
	}

	if raw.CreatedAt == "" {
		raw.CreatedAt = lo.Timestamp
	}

	if lo.PaymentData != nil {
		lastFour := lo.PaymentData.LastFour
		if lastFour == "" {
			lastFour = "****"
		}
		raw.Payment = &PaymentFragment{LastFour: lastFour}
	}

	return raw
}

// recoverLegacyCard tries the old session cipher on the legacy card blob.
// The key was derived from the browser session that wrote it, so recovery
// only works when that key is still active; a wrong key produces garbage,
// which the digit check rejects.
func (s *Service) recoverLegacyCard(ctx context.Context, lo *LegacyOrder, raw *RawOrder) {
	if s.legacy == nil || lo.PaymentData == nil || lo.PaymentData.CardEncrypted == "" {
		return
	}
	card := s.legacy.Decrypt(ctx, lo.PaymentData.CardEncrypted)
	if card == "" || card == obfuscate.DecryptionFailed || !looksLikeCardNumber(card) {
		return
	}
	raw.Payment.CardNumber = card
}

func looksLikeCardNumber(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 12
}
