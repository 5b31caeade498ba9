// Package auth issues and checks the operator tokens that guard the admin
// API of Gray Logic Voice.
//
// Tokens are HS256 JWTs signed with security.jwt.secret. They carry a
// subject and one of two roles; permissions are a static role mapping.
// Directive traffic is not covered: smart home platform authentication
// happens upstream of this service.
package auth
