// Package sqlite is an embedded backend driver on SQLite.
//
// It implements the same auth, table and change-feed contract as the hosted
// service so the dashboard can run locally and be exercised end to end in
// tests. Row access requires a token issued by SignIn.
package sqlite
