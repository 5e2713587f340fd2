// Package routeros is a client for the RouterOS API, the binary management
// protocol MikroTik routers serve on TCP port 8728.
//
// A Session owns one connection, logs in with the configured credentials and
// runs commands one at a time:
//
//	config := routeros.DefaultConfig()
//	config.Address = "192.168.88.1:8728"
//	config.Username = "admin"
//	config.Password = os.Getenv("ROUTEROS_PASSWORD")
//
//	session := routeros.NewSession(config)
//	defer session.Close()
//
//	users, err := session.TalkRecords(ctx, []string{"/ip/hotspot/user/print"})
//
// Each !re row of the reply becomes a wire.Record, a map with camelCase keys
// and numeric and boolean values converted.
//
// # Authentication policy
//
// With ReauthEveryCommand (the default) every command logs in on a fresh
// connection, which is closed once the reply is read. ReauthOnce logs in on
// first use and keeps the connection for later commands.
//
// # Reply completion
//
// CompletionFinalReply returns as soon as the !done (or !trap) sentence has
// arrived; ReadTimeout only bounds the wait. CompletionTimeout reads for the
// full ReadTimeout and takes whatever arrived as the reply.
//
// # Errors
//
// Failures are typed: *ConnectionError, *LoginError, *WriteError, *TrapError,
// ErrNoData and *wire.DecodeError. Execute folds them into a Result envelope
// that marshals to JSON. ShouldCloseConnection tells whether an error left
// the connection unusable; the session closes it on its own.
package routeros
