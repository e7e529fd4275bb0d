package storage

// ApiStore defines the complete set of operations needed by the HTTP API and the auction core.
// It composes other interfaces to provide a clear boundary for the API's data access.
type ApiStore interface {
	SessionStore
	WalletStore
	LedgerReader
	ArtworkStore
}
