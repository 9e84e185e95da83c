// Package rest is the backend driver for the hosted service.
//
// Tables are reached through a PostgREST-style HTTP dialect under /rest/v1,
// auth under /auth/v1 and the change feed through a JSON websocket under
// /realtime/v1. Every request carries the project API key; requests made on
// behalf of a signed-in admin also carry their bearer token.
package rest
