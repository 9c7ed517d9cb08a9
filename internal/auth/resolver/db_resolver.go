package resolver

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"social-login-service/internal/auth"
	"social-login-service/internal/db"
)

const uniqueViolation = "23505"

// DBResolver resolves identities against Postgres. The whole
// lookup-or-create sequence runs in one transaction and retries once
// when a concurrent login wins the insert race, which the unique
// constraints on identities and users make safe.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(database *db.DB) *DBResolver {
	return &DBResolver{db: database}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil || identity.ProviderUserID == "" {
		return "", auth.ErrIncompleteProfile
	}

	userID, err := r.resolveOnce(ctx, identity)
	if err == nil {
		return userID, nil
	}

	// A concurrent request created the same user or identity first.
	// The second pass finds the winner's rows.
	if isUniqueViolation(err) {
		return r.resolveOnce(ctx, identity)
	}

	return "", err
}

func (r *DBResolver) resolveOnce(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	// 1. Known identity (provider + provider_user_id).
	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return userID.String(), tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	// 2. Email-based linking: existing user, new provider. Only a
	// provider-asserted email may claim an existing account, and
	// stored emails exist only for users created from a verified
	// email (step 3 stores NULL otherwise).
	if identity.Email != "" {
		err = tx.QueryRowContext(ctx, `
			SELECT id
			FROM users
			WHERE LOWER(email) = LOWER($1)
		`,
			identity.Email,
		).Scan(&userID)

		if err == nil {
			if !identity.EmailVerified {
				return "", auth.ErrAccountConflict
			}
			if err := insertIdentity(ctx, tx, userID, identity); err != nil {
				return "", err
			}
			return userID.String(), tx.Commit()
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	}

	// 3. First login: create the user, then the identity mapping. An
	// unverified email is never stored, so it can never become a
	// linking target for someone else's verified login.
	storedEmail := ""
	if identity.EmailVerified {
		storedEmail = identity.Email
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, email_verified, display_name)
		VALUES (NULLIF($1, ''), $2, NULLIF($3, ''))
		RETURNING id
	`,
		storedEmail,
		identity.EmailVerified,
		identity.DisplayName,
	).Scan(&userID)
	if err != nil {
		return "", err
	}

	if err := insertIdentity(ctx, tx, userID, identity); err != nil {
		return "", err
	}

	return userID.String(), tx.Commit()
}

func insertIdentity(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	identity *auth.Identity,
) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
