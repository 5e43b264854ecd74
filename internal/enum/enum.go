package enum

// ── Roles (closed set returned by the credential check) ──

const (
	RoleAdmin    = "ADMIN"
	RoleStore    = "STORE"
	RoleRejected = "REJECTED"
)

// ── Tip selection modes ──

const (
	TipModePreset = "PRESET"
	TipModeCustom = "CUSTOM"
)

// ── Catalog change kinds ──

const (
	CatalogItemAdded   = "ADDED"
	CatalogItemUpdated = "UPDATED"
	CatalogItemRemoved = "REMOVED"
)

// ── Realtime event types ──

const (
	EventCartUpdated     = "cart.updated"
	EventCatalogUpdated  = "catalog.updated"
	EventSettingsUpdated = "settings.updated"
)
