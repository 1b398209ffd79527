package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eskrenkovic/game-night/internal/modules/core"
	"github.com/eskrenkovic/game-night/internal/modules/game-session/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const sessionColumns = `
	id, owner_id, title, scheduled_at, location, description,
	availability_from, availability_to, availability_deadline,
	final_date, created_at`

func LoadSession(ctx context.Context, q core.DBTX, sessionID uuid.UUID) (domain.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM
			game_session
		WHERE
			id = $1;`
	session, err := tql.QueryFirst[domain.Session](ctx, q, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, core.NotFound("SessionNotFound")
		}
		return domain.Session{}, err
	}

	return session, nil
}

// LoadOwnedSession locks the session row for the rest of the
// transaction. Callers that are not the owner get NotFound.
func LoadOwnedSession(ctx context.Context, q core.DBTX, sessionID uuid.UUID, ownerID uuid.UUID) (domain.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM
			game_session
		WHERE
			id = $1 AND owner_id = $2
		FOR UPDATE;`
	session, err := tql.QueryFirst[domain.Session](ctx, q, query, sessionID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, core.NotFound("SessionNotFound")
		}
		return domain.Session{}, err
	}

	return session, nil
}

func LoadParticipant(ctx context.Context, q core.DBTX, sessionID uuid.UUID, userID uuid.UUID) (*domain.Participant, error) {
	const query = `
		SELECT
			session_id, user_id, role, status, created_at, updated_at
		FROM
			session_participant
		WHERE
			session_id = $1 AND user_id = $2;`
	participant, err := tql.QueryFirst[domain.Participant](ctx, q, query, sessionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &participant, nil
}

func LoadMembership(ctx context.Context, q core.DBTX, sessionID uuid.UUID, userID uuid.UUID) (domain.Membership, error) {
	session, err := LoadSession(ctx, q, sessionID)
	if err != nil {
		return domain.Membership{}, err
	}

	participant, err := LoadParticipant(ctx, q, sessionID, userID)
	if err != nil {
		return domain.Membership{}, err
	}

	return domain.Membership{Session: session, Participant: participant}, nil
}

// RequireCollaborator loads the session for its owner or a confirmed
// participant. Anybody else is Forbidden.
func RequireCollaborator(ctx context.Context, q core.DBTX, sessionID uuid.UUID, userID uuid.UUID) (domain.Session, error) {
	membership, err := LoadMembership(ctx, q, sessionID, userID)
	if err != nil {
		return domain.Session{}, err
	}

	if !membership.CanCollaborate(userID) {
		return domain.Session{}, core.Forbidden("InvalidParticipant")
	}

	return membership.Session, nil
}

// ParticipantIDs returns the non-owner participants in any of the given
// statuses.
func ParticipantIDs(
	ctx context.Context,
	q core.DBTX,
	sessionID uuid.UUID,
	statuses ...domain.ParticipantStatus,
) ([]uuid.UUID, error) {
	values := core.Map(statuses, func(s domain.ParticipantStatus) string { return string(s) })

	const query = `
		SELECT
			user_id
		FROM
			session_participant
		WHERE
			session_id = $1 AND role <> 'host' AND status = ANY($2)
		ORDER BY
			user_id;`
	return tql.Query[uuid.UUID](ctx, q, query, sessionID, pq.Array(values))
}

// LoadPool builds the current game pool from the libraries of the
// owner and every confirmed participant.
func LoadPool(ctx context.Context, q core.DBTX, sessionID uuid.UUID, requesterID uuid.UUID) (domain.Pool, error) {
	const gamesQuery = `
		SELECT
			g.title, g.owner_id, u.username AS owner_name,
			g.image_url, g.min_players, g.max_players
		FROM
			session_participant p
			JOIN game g ON g.owner_id = p.user_id
			JOIN auth.user u ON u.id = p.user_id
		WHERE
			p.session_id = $1 AND p.status = 'confirmed'
		ORDER BY
			g.title, u.username;`
	games, err := tql.Query[domain.OwnedGame](ctx, q, gamesQuery, sessionID)
	if err != nil {
		return nil, err
	}

	const votesQuery = `
		SELECT
			user_id, game_key
		FROM
			session_game_vote
		WHERE
			session_id = $1;`
	votes, err := tql.Query[domain.Vote](ctx, q, votesQuery, sessionID)
	if err != nil {
		return nil, err
	}

	return domain.BuildPool(games, votes, requesterID), nil
}

func UserExists(ctx context.Context, q core.DBTX, userID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM auth.user WHERE id = $1
		);`
	return tql.QueryFirst[bool](ctx, q, query, userID)
}

func LoadFinalGames(ctx context.Context, q core.DBTX, sessionID uuid.UUID) ([]domain.FinalGame, error) {
	const query = `
		SELECT
			session_id, game_key, title, position
		FROM
			session_final_game
		WHERE
			session_id = $1
		ORDER BY
			position;`
	return tql.Query[domain.FinalGame](ctx, q, query, sessionID)
}
