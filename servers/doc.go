// Package servers implements the privmedia.FileServer delivery strategies.
//
//   - Direct reads the file and writes it to the response itself, honoring
//     If-Modified-Since. Suited to development and small deployments.
//   - Sendfile writes an empty response carrying a header (X-Sendfile by
//     default) that tells a front-end proxy which file to transfer. The file
//     is never read by this process.
//
// Register adds both to a privmedia.Registry under the names "direct" and
// "sendfile".
package servers
