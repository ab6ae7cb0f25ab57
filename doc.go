// Package privmedia gates read access to uploaded files kept in a private
// root directory outside the public web root.
//
// Every request goes through a Dispatcher, which asks a PermissionChecker
// whether the caller's Identity may read the requested path and, if so,
// hands the request to a FileServer.
//
// # Key Components
//
//   - PermissionChecker: read-access predicate over (identity, path)
//   - FileServer: delivery strategy, see the servers package for the direct
//     and sendfile implementations
//   - Dispatcher: permission check plus dispatch, built once at startup
//   - Registry: maps configured names to checker and server constructors
//   - UserStore / UserRepo: current role flags of known users
//
// # Modes
//
//   - ModeDebug: denied requests fail with ErrForbidden
//   - ModeProduction: denied requests fail with ErrNotFound, so a caller
//     cannot tell a missing file from one it may not read
//
// # Example Usage
//
//	reg := privmedia.NewRegistry()
//	servers.Register(reg)
//
//	server, err := reg.NewServer("direct", privmedia.ServerEnv{Root: root}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d, err := privmedia.NewDispatcher(privmedia.DispatcherConfig{
//	    Server: server,
//	    Mode:   privmedia.ModeProduction,
//	})
//
// See the http package for the route and identity middleware.
package privmedia
