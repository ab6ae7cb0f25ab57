// Package auth turns inbound requests into a privmedia.Identity.
//
// Two credential kinds are understood:
//
//   - JWT bearer tokens (HS256) issued by TokenManager, sent as
//     "Authorization: Bearer <token>" or as a "token" query parameter.
//   - Presigned links built by Presigner, which grant one user access to one
//     path until an expiry time.
//
// Resolver checks the credentials in that order and looks the user up in a
// privmedia.UserStore so role changes take effect without reissuing
// credentials. A missing, malformed or expired credential yields the
// anonymous identity; the request then goes through the permission checker
// like any other.
package auth
