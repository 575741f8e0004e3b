// Package common contains shared constants and sentinel errors used across
// the account service components.
package common

// TokenHeaderName is the HTTP header carrying the bearer token on
// profile and subscribe requests.
const TokenHeaderName = "token"
