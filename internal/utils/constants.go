package utils

const (
	DefaultTimeZone = "UTC"
	DateLayout      = "2006-01-02"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidToken     = "invalid token"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrValidationFailed = "validation failed"
)

// Display tokens
const (
	NotAvailable       = "Н/Д"
	ZeroDuration       = "0 сек"
	ZeroDistance       = "0 км"
	UnitDays           = "д"
	UnitHours          = "ч"
	UnitMinutes        = "мин"
	UnitSeconds        = "сек"
	UnitKilometers     = "км"
	SecondsPerDay      = 86400
	SecondsPerHour     = 3600
	SecondsPerMinute   = 60
	MetersPerKilometer = 1000.0
)
