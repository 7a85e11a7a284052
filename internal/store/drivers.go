package store

import (
	"context"

	// Both SQLite drivers register with database/sql: modernc as "sqlite",
	// ncruces as "sqlite3" (with its embedded WebAssembly build).
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	_ "modernc.org/sqlite"
)

const busyTimeoutPragma = "_pragma=busy_timeout(5000)"

func openModernc(ctx context.Context, path string) (Backend, error) {
	return openSQL(ctx, KindModernc, "sqlite", path+"?"+busyTimeoutPragma, path)
}

func openNcruces(ctx context.Context, path string) (Backend, error) {
	return openSQL(ctx, KindNcruces, "sqlite3", "file:"+path+"?"+busyTimeoutPragma, path)
}
