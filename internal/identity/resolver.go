package identity

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/upstream"
)

// Resolver turns session state plus a user-directory lookup into a
// UserIdentity. It never fails; the worst case is an empty identity.
type Resolver struct {
	provider  Provider
	directory upstream.UserDirectory
	// settleWait caps the wait for a settle event; zero waits on ctx only.
	settleWait time.Duration
}

func NewResolver(p Provider, dir upstream.UserDirectory) *Resolver {
	return &Resolver{provider: p, directory: dir}
}

// WithSettleWait bounds how long Resolve waits for the opaque id.
func (r *Resolver) WithSettleWait(d time.Duration) *Resolver {
	r.settleWait = d
	return r
}

// Resolve returns the current user's identity.
func (r *Resolver) Resolve(ctx context.Context) domain.UserIdentity {
	if r.provider == nil || !r.provider.IsAuthenticated() {
		return domain.UserIdentity{}
	}
	email := r.provider.CachedEmail()
	opaqueID := r.provider.CachedOpaqueID()

	if email == "" && opaqueID != "" {
		// Skip waiting for the email; the id alone identifies the user.
		u, err := r.directory.ByOpaqueID(ctx, opaqueID)
		if err != nil {
			logLookup("by_opaque_id", err)
			return domain.UserIdentity{UserID: opaqueID}
		}
		return fromUser(u, "", opaqueID)
	}

	if opaqueID == "" {
		st := r.awaitSettle(ctx)
		if st.Email != "" {
			email = st.Email
		}
		opaqueID = st.OpaqueID
	}
	return r.lookupChain(ctx, email, opaqueID)
}

// awaitSettle waits for a single authentication-state change.
func (r *Resolver) awaitSettle(ctx context.Context) State {
	if r.settleWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.settleWait)
		defer cancel()
	}
	select {
	case st, ok := <-r.provider.Settled(ctx):
		if ok {
			return st
		}
	case <-ctx.Done():
	}
	return State{}
}

// lookupChain tries by email, then by opaque id, then an email search.
// Each failure degrades to a partially filled identity.
func (r *Resolver) lookupChain(ctx context.Context, email, opaqueID string) domain.UserIdentity {
	partial := domain.UserIdentity{EmailAddress: email, UserID: opaqueID}

	if email != "" {
		u, err := r.directory.ByEmail(ctx, email)
		if err == nil {
			return fromUser(u, email, opaqueID)
		}
		logLookup("by_email", err)
	}
	if opaqueID != "" {
		u, err := r.directory.ByOpaqueID(ctx, opaqueID)
		if err == nil {
			return fromUser(u, email, opaqueID)
		}
		logLookup("by_opaque_id", err)
	}
	if email != "" {
		u, err := r.directory.SearchByEmail(ctx, email)
		if err == nil {
			return fromUser(u, email, opaqueID)
		}
		logLookup("search_by_email", err)
	}
	return partial
}

func fromUser(u *upstream.User, email, opaqueID string) domain.UserIdentity {
	if u == nil {
		return domain.UserIdentity{EmailAddress: email, UserID: opaqueID}
	}
	id := domain.UserIdentity{
		EmailAddress: u.Email,
		PhoneNumber:  u.Phone,
		UserID:       u.OpaqueID,
	}
	if id.EmailAddress == "" {
		id.EmailAddress = email
	}
	if id.UserID == "" {
		id.UserID = opaqueID
	}
	if id.UserID == "" && u.ID != 0 {
		id.UserID = strconv.FormatInt(u.ID, 10)
	}
	return id
}

func logLookup(step string, err error) {
	log.Warn().Err(err).Str("step", step).Msg("identity lookup failed, degrading")
}
