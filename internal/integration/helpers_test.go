package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/oceanview/resort-reservation-system/internal/domain"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp":         {},
	"requestId":         {},
	"createdAt":         {},
	"reservationNumber": {},
	"paymentNumber":     {},
	"paymentDate":       {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

// do sends a request straight through the router and returns the recorder.
func (app *TestApp) do(t testing.TB, method, path string, body io.Reader, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req, err := prepareRequest(method, path, body, nil, cookies)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	return rec
}

func (app *TestApp) registerUser(t testing.TB, email string) {
	body := fmt.Sprintf(`{
		"firstName": %q,
		"lastName": %q,
		"email": %q,
		"password": %q,
		"address": "1 Shore Road",
		"city": "Brighton",
		"country": "UK"
	}`, TestUserFirstName, TestUserLastName, email, TestUserPassword)

	rec := app.do(t, http.MethodPost, "/users", strings.NewReader(body), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (app *TestApp) promoteUser(t testing.TB, email string, role domain.Role) {
	_, err := app.DB.Exec(context.Background(), `UPDATE users SET role = $1 WHERE email = $2`, role, email)
	require.NoError(t, err)
}

func (app *TestApp) loginCookies(t testing.TB, email, password string) []*http.Cookie {
	body := fmt.Sprintf(`{"email": %q, "password": %q}`, email, password)

	rec := app.do(t, http.MethodPost, "/auth/login", strings.NewReader(body), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "login should set a session cookie")

	return cookies
}

func (app *TestApp) seedRoom(t testing.TB) int {
	var id int

	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO rooms (room_number, room_type, floor, capacity, price_per_night, status)
		VALUES ($1, 'DELUXE', 2, 3, $2, 'AVAILABLE')
		RETURNING id`,
		TestRoomNumber, TestRoomPricePerNight,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func (app *TestApp) resetDB(t testing.TB) {
	_, err := app.DB.Exec(context.Background(),
		`TRUNCATE payments, reservations, rooms, guests, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}
