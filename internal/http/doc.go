// Package http provides HTTP handlers and middleware for the reservations API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     The token is returned in the body and mirrored in the `X-Session-Token`
//     header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted
//     from the Authorization header or session cookie. Returns 204 No Content.
//   - POST /sessions/refresh: rotates the current token and extends its
//     lifetime. The old token stops working immediately.
//   - POST /users/register: public self-registration. The payload may pick
//     a role; accounts default to Teacher when it is absent.
//   - GET /users, POST /users, PUT /users/{id}, DELETE /users/{id}:
//     administrator controlled account management exchanging the `userDTO`
//     payload defined in user_handler.go.
//   - GET /rooms, POST /rooms, PUT /rooms/{id}, DELETE /rooms/{id}: room
//     catalog endpoints exchanging the `roomDTO` payload defined in
//     room_handler.go. Listing is open to any authenticated principal while
//     mutations require the administrator role.
//   - GET /slots, POST /slots: the weekly slot template registry. Slots are
//     immutable once created.
//   - GET /reservations, POST /reservations, PUT /reservations/{id}:
//     reservation endpoints exchanging the `reservationDTO` payload defined
//     in reservation_handler.go. A PUT carries the target status; the server
//     resolves which transition to run and who may run it.
//   - GET /reservations/availability?room={id}&from={date}&to={date}: per
//     slot open dates for a room. Bounds default to a two week window
//     starting today.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
