package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oceanview/resort-reservation-system/api"
	"github.com/oceanview/resort-reservation-system/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) RecordPayment(w http.ResponseWriter, r *http.Request) {
	reservationId, err := readIDParam(r, "reservationId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var req api.RecordPaymentRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			app.failedValidationResponse(w, r, validationErrors)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), reservationId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if reservation.IsCancelled() {
		app.conflictResponse(w, r, "Cannot record a payment against a cancelled reservation")
		return
	}

	// The desk usually takes the full bill; an explicit amount covers
	// deposits and split payments.
	amount := reservation.FinalAmount
	if req.Amount != nil {
		amount, err = decimal.NewFromString(*req.Amount)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid payment amount"))
			return
		}
	}

	now := app.now()

	payment := &domain.Payment{
		ReservationID: reservation.ID,
		PaymentNumber: generatePaymentNumber(now.Year()),
		Amount:        amount,
		Currency:      app.config.Billing.Currency,
		Method:        domain.PaymentMethod(req.Method),
		Status:        domain.PaymentStatusCompleted,
		TransactionID: req.TransactionId,
		PaymentDate:   &now,
	}

	err = app.paymentRepo.Create(r.Context(), payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toPaymentResponse(payment)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationPayments(w http.ResponseWriter, r *http.Request) {
	reservationId, err := readIDParam(r, "reservationId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	_, err = app.reservationRepo.GetById(r.Context(), reservationId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	payments, err := app.paymentRepo.GetByReservationId(r.Context(), reservationId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	items := make([]api.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentResponse(&payments[i]))
	}

	resp := api.PaymentListResponse{Payments: items}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "paymentId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	payment, err := app.paymentRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = payment.Refund()
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotRefundable):
			app.conflictResponse(w, r, "Only completed payments can be refunded")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.paymentRepo.UpdateStatus(r.Context(), payment.ID, payment.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := toPaymentResponse(payment)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toPaymentResponse(payment *domain.Payment) api.PaymentResponse {
	return api.PaymentResponse{
		Id:            payment.ID,
		ReservationId: payment.ReservationID,
		PaymentNumber: payment.PaymentNumber,
		Amount:        payment.Amount.StringFixed(2),
		Currency:      payment.Currency,
		Method:        string(payment.Method),
		Status:        string(payment.Status),
		TransactionId: payment.TransactionID,
		PaymentDate:   payment.PaymentDate,
		CreatedAt:     payment.CreatedAt,
	}
}

func generatePaymentNumber(year int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("PAY-%d-%s", year, suffix)
}
