package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oceanview/resort-reservation-system/api"
	"github.com/oceanview/resort-reservation-system/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req api.CreateReservationRequest

	err := app.readJSON(w, r, &req)
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

	checkIn, checkOut := req.CheckInDate.Time, req.CheckOutDate.Time

	if !checkOut.After(checkIn) {
		app.badRequestResponse(w, r, errors.New("check-out date must be after check-in date"))
		return
	}

	if checkIn.Before(toDateOnly(app.now())) {
		app.badRequestResponse(w, r, errors.New("check-in date must not be in the past"))
		return
	}

	userId := contextGetUserId(r)

	guest, err := app.guestRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	room, err := app.roomRepo.GetById(r.Context(), req.RoomId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if room.Status == domain.RoomStatusMaintenance {
		app.conflictResponse(w, r, "Room is not available for reservations")
		return
	}

	reservation := domain.NewReservation(guest.ID, room.ID, checkIn, checkOut)
	reservation.ReservationNumber = generateReservationNumber(app.now().Year())
	reservation.SpecialRequests = req.SpecialRequests

	if req.NumberOfGuests > 0 {
		if req.NumberOfGuests > room.Capacity {
			app.badRequestResponse(w, r, fmt.Errorf("room %s holds at most %d guests", room.RoomNumber, room.Capacity))
			return
		}
		reservation.NumberOfGuests = req.NumberOfGuests
	}

	if req.DiscountAmount != nil {
		discount, err := decimal.NewFromString(*req.DiscountAmount)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid discount amount"))
			return
		}
		reservation.DiscountAmount = discount
	}

	err = reservation.CalculateAmounts(
		room.PricePerNight,
		app.config.Billing.TaxPercent,
		app.config.Billing.ServiceChargePercent,
	)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.reservationRepo.Create(r.Context(), reservation)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sendReservationEmail(userId, reservation, room, "reservation_confirmation.tmpl")

	resp := app.toReservationResponse(reservation)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	reservation, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	allowed, err := app.canAccessReservation(r, reservation)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !allowed {
		app.forbiddenResponse(w, r)
		return
	}

	resp := app.toReservationResponse(reservation)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateReservation lets the holder adjust dates, party size, or discount
// while the reservation is still pending. Any change that affects the bill
// recomputes the full breakdown from the room's current rate.
func (app *Application) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var req api.UpdateReservationRequest

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

	reservation, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	allowed, err := app.canAccessReservation(r, reservation)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !allowed {
		app.forbiddenResponse(w, r)
		return
	}

	if !reservation.IsPending() {
		app.conflictResponse(w, r, "Only pending reservations can be modified")
		return
	}

	if req.CheckInDate != nil {
		reservation.CheckInDate = req.CheckInDate.Time
	}
	if req.CheckOutDate != nil {
		reservation.CheckOutDate = req.CheckOutDate.Time
	}
	if req.NumberOfGuests != nil {
		reservation.NumberOfGuests = *req.NumberOfGuests
	}
	if req.SpecialRequests != nil {
		reservation.SpecialRequests = *req.SpecialRequests
	}
	if req.DiscountAmount != nil {
		discount, err := decimal.NewFromString(*req.DiscountAmount)
		if err != nil {
			app.badRequestResponse(w, r, errors.New("invalid discount amount"))
			return
		}
		reservation.DiscountAmount = discount
	}

	if !reservation.CheckOutDate.After(reservation.CheckInDate) {
		app.badRequestResponse(w, r, errors.New("check-out date must be after check-in date"))
		return
	}

	room, err := app.roomRepo.GetById(r.Context(), reservation.RoomID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if reservation.NumberOfGuests > room.Capacity {
		app.badRequestResponse(w, r, fmt.Errorf("room %s holds at most %d guests", room.RoomNumber, room.Capacity))
		return
	}

	err = reservation.CalculateAmounts(
		room.PricePerNight,
		app.config.Billing.TaxPercent,
		app.config.Billing.ServiceChargePercent,
	)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.reservationRepo.Update(r.Context(), reservation)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := app.toReservationResponse(reservation)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	app.transitionReservation(w, r, func(reservation *domain.Reservation) error {
		return reservation.Confirm()
	}, domain.RoomStatusReserved)
}

func (app *Application) CheckInReservation(w http.ResponseWriter, r *http.Request) {
	app.transitionReservation(w, r, func(reservation *domain.Reservation) error {
		return reservation.CheckIn(app.now())
	}, domain.RoomStatusOccupied)
}

func (app *Application) CheckOutReservation(w http.ResponseWriter, r *http.Request) {
	app.transitionReservation(w, r, func(reservation *domain.Reservation) error {
		return reservation.CheckOut()
	}, domain.RoomStatusAvailable)
}

func (app *Application) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	current, err := app.reservationRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	allowed, err := app.canAccessReservation(r, current)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !allowed {
		app.forbiddenResponse(w, r)
		return
	}

	wasActive := current.IsActive()

	reservation, err := app.reservationRepo.Transition(r.Context(), id, func(reservation *domain.Reservation) error {
		return reservation.Cancel()
	})
	if err != nil {
		app.reservationTransitionError(w, r, err)
		return
	}

	// A pending reservation never held the room, so only release it when
	// the cancellation undoes a confirmation.
	if wasActive {
		err = app.roomRepo.UpdateStatus(r.Context(), reservation.RoomID, domain.RoomStatusAvailable)
		if err != nil {
			app.logError(r, err)
		}
	}

	app.sendReservationEmailByGuest(reservation, "reservation_cancellation.tmpl")

	resp := app.toReservationResponse(reservation)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// transitionReservation runs the shared fetch-transition-respond flow for the
// staff lifecycle endpoints, then moves the room to the status that matches
// the reservation's new state.
func (app *Application) transitionReservation(
	w http.ResponseWriter,
	r *http.Request,
	fn func(*domain.Reservation) error,
	roomStatus domain.RoomStatus,
) {
	id, err := readIDParam(r, "reservationId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	reservation, err := app.reservationRepo.Transition(r.Context(), id, fn)
	if err != nil {
		app.reservationTransitionError(w, r, err)
		return
	}

	err = app.roomRepo.UpdateStatus(r.Context(), reservation.RoomID, roomStatus)
	if err != nil {
		app.logError(r, err)
	}

	resp := app.toReservationResponse(reservation)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) reservationTransitionError(w http.ResponseWriter, r *http.Request, err error) {
	var illegalTransition *domain.IllegalTransitionError

	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponseWithErr(w, r, err)
	case errors.As(err, &illegalTransition):
		app.conflictResponse(w, r, illegalTransition.Error())
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservations(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		app.getActiveReservations(w, r)
		return
	}

	page, pageSize, err := app.readPagination(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{Page: page, PageSize: pageSize}

	reservations, metadata, err := app.reservationRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toReservationListResponse(reservations, metadata)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) getActiveReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := app.reservationRepo.GetActive(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toReservationListResponse(reservations, nil)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetReservationByNumber looks a reservation up by the RES- number printed
// on the guest's confirmation, for use at the front desk.
func (app *Application) GetReservationByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "reservationNumber")

	reservation, err := app.reservationRepo.GetByNumber(r.Context(), number)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := app.toReservationResponse(reservation)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRoomReservations(w http.ResponseWriter, r *http.Request) {
	roomId, err := readIDParam(r, "roomId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	reservations, err := app.reservationRepo.GetByRoomId(r.Context(), roomId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toReservationListResponse(reservations, nil)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTodayArrivals(w http.ResponseWriter, r *http.Request) {
	reservations, err := app.reservationRepo.GetArrivalsByDate(r.Context(), toDateOnly(app.now()))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toReservationListResponse(reservations, nil)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTodayDepartures(w http.ResponseWriter, r *http.Request) {
	reservations, err := app.reservationRepo.GetDeparturesByDate(r.Context(), toDateOnly(app.now()))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toReservationListResponse(reservations, nil)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationsOfUser(w http.ResponseWriter, r *http.Request) {
	userId := contextGetUserId(r)

	guest, err := app.guestRepo.GetByUserId(r.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	page, pageSize, err := app.readPagination(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{Page: page, PageSize: pageSize}

	reservations, metadata, err := app.reservationRepo.GetByGuestId(r.Context(), guest.ID, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := app.toReservationListResponse(reservations, metadata)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// canAccessReservation lets staff and admins see any reservation; guests see
// only their own.
func (app *Application) canAccessReservation(r *http.Request, reservation *domain.Reservation) (bool, error) {
	role := domain.Role(app.sessionManager.GetString(r.Context(), SessionKeyRole))
	if role == domain.RoleStaff || role == domain.RoleAdmin {
		return true, nil
	}

	guest, err := app.guestRepo.GetByUserId(r.Context(), contextGetUserId(r))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return guest.ID == reservation.GuestID, nil
}

func (app *Application) sendReservationEmail(userId int, reservation *domain.Reservation, room *domain.Room, templateFile string) {
	app.background(func() {
		user, err := app.userRepo.GetById(context.Background(), userId)
		if err != nil {
			app.logger.Error("failed to load user for reservation email", "error", err)
			return
		}

		data := map[string]any{
			"firstName":         user.FirstName,
			"reservationNumber": reservation.ReservationNumber,
			"roomNumber":        room.RoomNumber,
			"checkInDate":       reservation.CheckInDate.Format("2006-01-02"),
			"checkOutDate":      reservation.CheckOutDate.Format("2006-01-02"),
			"nights":            reservation.Nights(),
			"currency":          app.config.Billing.Currency,
			"finalAmount":       reservation.FinalAmount.StringFixed(2),
		}

		err = app.mailer.Send(user.Email, templateFile, data)
		if err != nil {
			app.logger.Error("failed to send reservation email", "error", err)
		}
	})
}

func (app *Application) sendReservationEmailByGuest(reservation *domain.Reservation, templateFile string) {
	ctx := context.Background()

	guest, err := app.guestRepo.GetById(ctx, reservation.GuestID)
	if err != nil {
		app.logger.Error("failed to load guest for reservation email", "error", err)
		return
	}

	room, err := app.roomRepo.GetById(ctx, reservation.RoomID)
	if err != nil {
		app.logger.Error("failed to load room for reservation email", "error", err)
		return
	}

	app.sendReservationEmail(guest.UserID, reservation, room, templateFile)
}

func (app *Application) toReservationResponse(reservation *domain.Reservation) api.ReservationResponse {
	return api.ReservationResponse{
		Id:                  reservation.ID,
		ReservationNumber:   reservation.ReservationNumber,
		GuestId:             reservation.GuestID,
		RoomId:              reservation.RoomID,
		CheckInDate:         api.Date{Time: reservation.CheckInDate},
		CheckOutDate:        api.Date{Time: reservation.CheckOutDate},
		NumberOfGuests:      reservation.NumberOfGuests,
		NumberOfNights:      reservation.Nights(),
		TotalAmount:         reservation.TotalAmount.StringFixed(2),
		DiscountAmount:      reservation.DiscountAmount.StringFixed(2),
		TaxAmount:           reservation.TaxAmount.StringFixed(2),
		ServiceChargeAmount: reservation.ServiceChargeAmount.StringFixed(2),
		FinalAmount:         reservation.FinalAmount.StringFixed(2),
		Currency:            app.config.Billing.Currency,
		Status:              string(reservation.Status),
		SpecialRequests:     reservation.SpecialRequests,
		CreatedAt:           reservation.CreatedAt,
	}
}

func (app *Application) toReservationListResponse(reservations []domain.Reservation, metadata *domain.Metadata) api.ReservationListResponse {
	items := make([]api.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		items = append(items, app.toReservationResponse(&reservations[i]))
	}

	resp := api.ReservationListResponse{Reservations: items}
	if metadata != nil {
		resp.Metadata = api.Metadata{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		}
	}

	return resp
}

// generateReservationNumber produces RES-<year>-<8 char suffix> identifiers.
// The suffix comes from a v4 UUID, so numbers are unguessable and collisions
// are left to the unique index to catch.
func generateReservationNumber(year int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("RES-%d-%s", year, suffix)
}
