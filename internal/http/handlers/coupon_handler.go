package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/http/response"
	"github.com/kakunuriMahesh/doctor-appointments/internal/utils"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/events"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
)

type CouponStore interface {
	CreateCoupon(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) (bool, error)
}

const couponValidity = 30 * 24 * time.Hour

type CouponHandler struct {
	Store CouponStore
	Bus   events.Publisher
}

func NewCouponHandler(store CouponStore, bus events.Publisher) *CouponHandler {
	return &CouponHandler{Store: store, Bus: bus}
}

func (h *CouponHandler) Register(r chi.Router) {
	r.Post("/coupon", h.create)
	r.Delete("/coupon/{code}", h.delete)
	r.Get("/coupons", h.list)
}

func (h *CouponHandler) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DoctorID           string   `json:"doctorId"`
		DiscountPercentage *float64 `json:"discountPercentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.DoctorID == "" || in.DiscountPercentage == nil {
		response.BadRequest(w, "doctorId and discountPercentage are required")
		return
	}
	pct := *in.DiscountPercentage
	if pct < 0 || pct > 100 {
		response.BadRequest(w, "Discount percentage must be between 0 and 100")
		return
	}

	code := "DISCOUNT" + strconv.FormatFloat(pct, 'f', -1, 64) + "-" + utils.RandomCode(6)
	coupon := &domain.Coupon{
		Code:               code,
		DiscountPercentage: pct,
		ValidUntil:         time.Now().Add(couponValidity),
	}
	saved, err := h.Store.CreateCoupon(r.Context(), coupon)
	if err != nil {
		response.InternalError(w, "Failed to create coupon")
		return
	}

	if h.Bus != nil {
		ev := events.CouponCreatedEvent{
			Code:               saved.Code,
			DiscountPercentage: saved.DiscountPercentage,
			ValidUntil:         saved.ValidUntil,
		}
		if err := h.Bus.Publish(r.Context(), events.CouponCreated, ev); err != nil {
			logger.ErrorContext(r.Context(), "failed to publish coupon event", "error", err)
		}
	}

	response.JSON(w, http.StatusOK, map[string]string{"code": saved.Code})
}

func (h *CouponHandler) delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "code is required")
		return
	}
	deleted, err := h.Store.DeleteCoupon(r.Context(), code)
	if err != nil {
		response.InternalError(w, "Failed to delete coupon")
		return
	}
	if !deleted {
		response.NotFound(w, "Coupon not found")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Coupon deleted"})
}

func (h *CouponHandler) list(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Store.ListCoupons(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to fetch coupons")
		return
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	response.JSON(w, http.StatusOK, coupons)
}
