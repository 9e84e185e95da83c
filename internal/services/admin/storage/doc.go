// Package storage defines persistence contracts for operator session state.
//
// Dashboard data itself lives in the backend; this store only keeps what the
// admin surface needs to recognise a signed-in operator between requests.
package storage
