package app

import (
	"errors"
	"net/http"

	"github.com/oceanview/resort-reservation-system/api"
	"github.com/oceanview/resort-reservation-system/internal/domain"
)

func (app *Application) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "roomId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	room, err := app.roomRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := toRoomResponse(room)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetRooms(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := app.readPagination(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{Page: page, PageSize: pageSize}

	rooms, metadata, err := app.roomRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	items := make([]api.RoomResponse, 0, len(rooms))
	for i := range rooms {
		items = append(items, toRoomResponse(&rooms[i]))
	}

	resp := api.RoomListResponse{
		Rooms: items,
		Metadata: api.Metadata{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toRoomResponse(room *domain.Room) api.RoomResponse {
	return api.RoomResponse{
		Id:            room.ID,
		RoomNumber:    room.RoomNumber,
		RoomType:      string(room.RoomType),
		Floor:         room.Floor,
		Capacity:      room.Capacity,
		PricePerNight: room.PricePerNight.StringFixed(2),
		Description:   room.Description,
		Status:        string(room.Status),
	}
}
