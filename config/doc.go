// Package config provides configuration loading and validation for privmedia.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (PRIVMEDIA_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with PRIVMEDIA_ prefix:
//   - server.mode → PRIVMEDIA_SERVER_MODE
//   - files.server → PRIVMEDIA_FILES_SERVER
//   - auth.secret → PRIVMEDIA_AUTH_SECRET
//
// # Files
//
// files.server and files.permissions name entries in the privmedia registry.
// Their options are passed through untouched, for example:
//
//	files:
//	  server: sendfile
//	  server_options:
//	    header: X-Accel-Redirect
//	    internal_prefix: /protected
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Mode must be debug or production
//   - Users backend must be static or database
//   - Log level must be debug, info, warn, or error
//
// Table names are checked with privmedia.IsValidTableName.
package config
