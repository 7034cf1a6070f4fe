package repository

import "strings"

// The store predates this service and keeps its flag columns as text. Every
// flag is persisted as the literal "TRUE"/"FALSE" pair, except book_enviado
// which historically uses "SIM"/"NAO". The codec below is the only place
// where that string contract exists; domain structs carry native booleans.
const (
	flagTrue  = "TRUE"
	flagFalse = "FALSE"
	bookYes   = "SIM"
	bookNo    = "NAO"
)

func encodeFlag(v bool) string {
	if v {
		return flagTrue
	}
	return flagFalse
}

func decodeFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), flagTrue)
}

func encodeBook(v bool) string {
	if v {
		return bookYes
	}
	return bookNo
}

// decodeBook accepts the legacy "SIM" as well as "TRUE" so rows written by
// older imports evaluate the same way as fresh ones.
func decodeBook(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.EqualFold(trimmed, bookYes) || strings.EqualFold(trimmed, flagTrue)
}
