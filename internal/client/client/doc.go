// Package client talks to the accounts HTTP API on behalf of the CLI.
//
// The Client interface mirrors the server operations: Register, Verify,
// Resend, Login, Me and Ping. HTTPClient implements it over JSON and maps
// response statuses onto sentinel errors, so callers can use errors.Is:
//
//   - ErrUnavailable         server unreachable or timed out
//   - ErrUnauthorized        token rejected by the profile endpoint
//   - ErrInvalidCredentials  login with an unknown email or wrong password
//   - common.ErrorValidation, common.ErrorNotFound, common.ErrorNotVerified,
//     common.ErrorAlreadyExists, common.ErrorAlreadyVerified,
//     common.ErrorDelivery via *APIError
package client
