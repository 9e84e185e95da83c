// Package admin serves the payments and membership dashboard.
//
// Handlers gate every page on an admin session, read panels through the
// dashboard service and render htmx fragments. Mutations answer with the
// re-rendered panel plus HX-Trigger events that refresh related panels and
// raise a notification. The live hub pushes refresh frames when the backend
// reports row changes.
package admin
