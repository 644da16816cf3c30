package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seva-innovations/storefront-vault/internal/common"
	"github.com/seva-innovations/storefront-vault/internal/orders"
	"github.com/seva-innovations/storefront-vault/internal/payment"
)

type checkoutRequest struct {
	Order      orders.RawOrder `json:"order" binding:"required"`
	SuccessURL string          `json:"successUrl"`
	CancelURL  string          `json:"cancelUrl"`
}

// handleCheckout stores the raw order and, when the external checkout
// endpoint is configured and redirect URLs were supplied, opens a payment
// session for it.
func (s *Server) handleCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	ctx := c.Request.Context()
	orderID, err := s.orders.StoreOrder(ctx, &req.Order)
	if err != nil {
		s.log.Error(ctx, "failed to store order", "error", err)
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store order")
		return
	}

	data := gin.H{"orderId": orderID}

	if s.payment.Enabled() && req.SuccessURL != "" {
		items := make([]payment.LineItem, 0, len(req.Order.Items))
		for _, it := range req.Order.Items {
			items = append(items, payment.LineItem{Name: it.Name, Amount: it.Price, Quantity: it.Quantity})
		}
		email := ""
		if req.Order.Customer != nil {
			email = req.Order.Customer.Email
		}
		session, err := s.payment.CreateSession(ctx, &payment.CheckoutRequest{
			LineItems:     items,
			SuccessURL:    req.SuccessURL,
			CancelURL:     req.CancelURL,
			CustomerEmail: email,
			Metadata:      map[string]string{"orderId": orderID},
		})
		if err != nil {
			// the order is stored either way; the site falls back to the
			// local payment flow
			s.log.Warn(ctx, "checkout session creation failed", "order_id", orderID, "error", err)
		} else {
			data["checkout"] = session
		}
	}

	respondOK(c, http.StatusCreated, data)
}

func (s *Server) handleOrdersByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondErr(c, http.StatusBadRequest, "VALIDATION_ERROR", "The email parameter is required")
		return
	}

	list, err := s.orders.OrdersByEmail(c.Request.Context(), email)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read orders")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"orders": list})
}

type loginRequest struct {
	Username   string `json:"username" binding:"required"`
	Secret     string `json:"secret"`
	AsCustomer bool   `json:"asCustomer"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	result, err := s.auth.Login(c.Request.Context(), req.Username, req.Secret, req.AsCustomer)
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Login failed")
		return
	}

	if !result.Success {
		if result.Locked {
			respondErr(c, http.StatusLocked, "LOCKED_OUT", result.Error)
			return
		}
		respondErr(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", result.Error)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"user": result.User})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context()); err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Logout failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"loggedOut": true})
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (s *Server) handleUpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	err := s.auth.UpdatePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, common.ErrIncorrectPassword):
		respondErr(c, http.StatusUnauthorized, "INCORRECT_PASSWORD", "Current password is incorrect")
	case errors.Is(err, common.ErrPasswordTooShort):
		respondErr(c, http.StatusBadRequest, "PASSWORD_TOO_SHORT", "New password must be at least 8 characters")
	case errors.Is(err, common.ErrNotAuthorized):
		respondErr(c, http.StatusForbidden, "FORBIDDEN", "Admin session required")
	case err != nil:
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to update password")
	default:
		respondOK(c, http.StatusOK, gin.H{"updated": true})
	}
}

func (s *Server) handleAdminOrders(c *gin.Context) {
	list, err := s.orders.PublicOrders(c.Request.Context())
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read orders")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"orders": list})
}

func (s *Server) handleAdminOrder(c *gin.Context) {
	full, err := s.orders.FullOrder(c.Request.Context(), c.Param("id"), sessionFrom(c))
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read order")
		return
	}
	if full == nil {
		respondErr(c, http.StatusNotFound, "ORDER_NOT_FOUND", "No such order")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"order": full})
}

func (s *Server) handlePaymentField(c *gin.Context) {
	value := s.orders.DecryptPaymentField(c.Request.Context(), c.Param("id"), c.Param("field"), sessionFrom(c))
	respondOK(c, http.StatusOK, gin.H{"value": value})
}

func (s *Server) handleClearPayment(c *gin.Context) {
	if err := s.orders.ClearPaymentData(c.Request.Context(), c.Param("id"), sessionFrom(c)); err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to clear payment data")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"cleared": true})
}

type statusRequest struct {
	Status         string `json:"status" binding:"required"`
	PaymentStatus  string `json:"paymentStatus"`
	PaidAt         string `json:"paidAt"`
	TrackingNumber string `json:"trackingNumber"`
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	updated, err := s.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, &orders.StatusUpdate{
		PaymentStatus:  req.PaymentStatus,
		PaidAt:         req.PaidAt,
		TrackingNumber: req.TrackingNumber,
	})
	if errors.Is(err, common.ErrNotFound) {
		respondErr(c, http.StatusNotFound, "ORDER_NOT_FOUND", "No such order")
		return
	}
	if err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to update status")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"order": updated})
}

func (s *Server) handleDeleteOrder(c *gin.Context) {
	if err := s.orders.DeleteOrder(c.Request.Context(), c.Param("id"), sessionFrom(c)); err != nil {
		respondErr(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete order")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
