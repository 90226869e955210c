package httpx

// ctxKey is unexported so only this package can build context keys.
type ctxKey string

// CtxKeyAccountID holds the authenticated account id, set by the
// identity middleware and read by per-account rate limiting.
const CtxKeyAccountID ctxKey = "account_id"
