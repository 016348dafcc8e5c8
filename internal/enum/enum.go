package enum

// ── Draft lifecycle ──

const (
	DraftKindSale        = "SALE"
	DraftKindReservation = "RESERVATION"
)

const (
	ReservationStatusActive    = "ACTIVE"
	ReservationStatusCompleted = "COMPLETED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusExpired   = "EXPIRED"
)

// ── Validity window (deposit sufficiency) ──

const (
	ValidityNone  = "NONE"
	ValidityShort = "SHORT"
	ValidityLong  = "LONG"
)

// Business-day spans for each validity window.
const (
	ValidityShortDays = 3
	ValidityLongDays  = 30
)

// ── Payment ──

const (
	PaymentMethodCash    = "EF"
	PaymentMethodDigital = "DI"
)

const (
	PaymentProviderNequi     = "NEQUI"
	PaymentProviderDaviplata = "DAVIPLATA"
)

// ── Users ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleSeller  = "SELLER"
	UserRoleAuditor = "AUDITOR"
)

// ── Catalog filters ──

const (
	ProductFilterAll      = "all"
	ProductFilterSimple   = "simple"
	ProductFilterVariants = "variants"
)
