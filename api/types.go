// Package api defines the JSON types exchanged with clients.
package api

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component, rendered as yyyy-mm-dd.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}

	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return err
	}

	d.Time = t

	return nil
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
	Address   string `json:"address" validate:"max=255"`
	City      string `json:"city" validate:"max=100"`
	Country   string `json:"country" validate:"max=100"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type CreateReservationRequest struct {
	RoomId          int     `json:"roomId" validate:"required,min=1"`
	CheckInDate     Date    `json:"checkInDate" validate:"required"`
	CheckOutDate    Date    `json:"checkOutDate" validate:"required"`
	NumberOfGuests  int     `json:"numberOfGuests" validate:"omitempty,min=1,max=10"`
	DiscountAmount  *string `json:"discountAmount" validate:"omitempty,amount"`
	SpecialRequests string  `json:"specialRequests" validate:"max=500"`
}

type UpdateReservationRequest struct {
	CheckInDate     *Date   `json:"checkInDate"`
	CheckOutDate    *Date   `json:"checkOutDate"`
	NumberOfGuests  *int    `json:"numberOfGuests" validate:"omitempty,min=1,max=10"`
	DiscountAmount  *string `json:"discountAmount" validate:"omitempty,amount"`
	SpecialRequests *string `json:"specialRequests" validate:"omitempty,max=500"`
}

type ReservationResponse struct {
	Id                  int       `json:"id"`
	ReservationNumber   string    `json:"reservationNumber"`
	GuestId             int       `json:"guestId"`
	RoomId              int       `json:"roomId"`
	CheckInDate         Date      `json:"checkInDate"`
	CheckOutDate        Date      `json:"checkOutDate"`
	NumberOfGuests      int       `json:"numberOfGuests"`
	NumberOfNights      int       `json:"numberOfNights"`
	TotalAmount         string    `json:"totalAmount"`
	DiscountAmount      string    `json:"discountAmount"`
	TaxAmount           string    `json:"taxAmount"`
	ServiceChargeAmount string    `json:"serviceChargeAmount"`
	FinalAmount         string    `json:"finalAmount"`
	Currency            string    `json:"currency"`
	Status              string    `json:"status"`
	SpecialRequests     string    `json:"specialRequests,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Metadata     Metadata              `json:"metadata"`
}

type RoomResponse struct {
	Id            int    `json:"id"`
	RoomNumber    string `json:"roomNumber"`
	RoomType      string `json:"roomType"`
	Floor         int    `json:"floor"`
	Capacity      int    `json:"capacity"`
	PricePerNight string `json:"pricePerNight"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status"`
}

type RoomListResponse struct {
	Rooms    []RoomResponse `json:"rooms"`
	Metadata Metadata       `json:"metadata"`
}

type RecordPaymentRequest struct {
	Method        string  `json:"method" validate:"required,payment_method"`
	Amount        *string `json:"amount" validate:"omitempty,amount"`
	TransactionId string  `json:"transactionId" validate:"max=100"`
}

type PaymentResponse struct {
	Id            int        `json:"id"`
	ReservationId int        `json:"reservationId"`
	PaymentNumber string     `json:"paymentNumber"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionId string     `json:"transactionId,omitempty"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}
