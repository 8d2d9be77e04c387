package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

const (
	sessionIDKey   = "principal_id"
	sessionNameKey = "principal_name"
	sessionKindKey = "principal_kind"
)

// NewSessionManager creates an SCS session manager. With a database it
// uses the matching driver store ("mysql", "postgres", or "sqlite3");
// with a nil database (file backend) sessions live in the default
// in-memory store and do not survive a restart.
func NewSessionManager(db *sqlx.DB, driver string, lifetime time.Duration) *scs.SessionManager {
	sm := scs.New()
	if db != nil {
		switch driver {
		case "mysql":
			sm.Store = mysqlstore.New(db.DB)
		case "postgres":
			sm.Store = postgresstore.New(db.DB)
		default: // sqlite3
			sm.Store = sqlite3store.New(db.DB)
		}
	}
	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

// putPrincipal stores the principal in the session.
func putPrincipal(ctx context.Context, sm *scs.SessionManager, p Principal) {
	sm.Put(ctx, sessionIDKey, p.ID)
	sm.Put(ctx, sessionNameKey, p.DisplayName)
	sm.Put(ctx, sessionKindKey, string(p.Kind))
}

// principalFromSession reconstructs the principal stored in the
// session, if any.
func principalFromSession(ctx context.Context, sm *scs.SessionManager) (Principal, bool) {
	kind := sm.GetString(ctx, sessionKindKey)
	if kind == "" {
		return Principal{}, false
	}
	return Principal{
		ID:          sm.GetString(ctx, sessionIDKey),
		DisplayName: sm.GetString(ctx, sessionNameKey),
		Kind:        Kind(kind),
	}, true
}
