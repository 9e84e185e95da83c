// Package service holds the dashboard's panel reads and admin mutations over
// the backend table contract. Handlers render what it returns; it never
// touches HTTP.
package service
