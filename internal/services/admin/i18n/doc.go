// Package i18n provides localization helpers for the admin UI: language
// resolution, the English message catalog and money formatting.
package i18n
