// Package domain defines the rows the dashboard reads from the backend and
// the small rules that apply to them: status transitions, display-name
// fallbacks, and revenue statistics.
package domain
