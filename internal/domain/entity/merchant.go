package entity

// MerchantProfile holds the gateway credentials and defaults used when
// creating payments on behalf of an owner. Profiles are resolved by the
// surrounding system; the engine only reads them.
type MerchantProfile struct {
	OwnerID     string
	MerchantID  string // Gateway-issued merchant identifier
	TerminalID  string // Gateway-issued terminal identifier
	Currency    string // Default ISO currency code, e.g. "ILS"
	Language    string // Hosted-page language code
	SuccessURL  string // Redirect after a successful payment
	CancelURL   string // Redirect after an abandoned payment
	CallbackURL string // Where the gateway delivers webhooks
}
