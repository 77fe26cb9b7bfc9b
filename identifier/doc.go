// Package identifier provides the typed identifiers carried by a resolved
// profile: the caller identity, the context (tenant) it acts within, and the
// API key used for token exchange.
//
// Identity and context identifiers are UUID-backed and render as the bare
// canonical UUID. Both accept an optional type prefix on input
// ("identity-", "context-").
package identifier
