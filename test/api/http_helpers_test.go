package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type responseAssertion func(*http.Response)

func expectStatus(t *testing.T, status int) responseAssertion {
	return func(resp *http.Response) {
		require.Equal(t, status, resp.StatusCode)
	}
}

type testUser struct {
	ID        uuid.UUID
	Username  string
	SessionID uuid.UUID
}

func sendRequest[TReq any, TResp any](
	c *http.Client,
	as testUser,
	method string,
	path string,
	req TReq,
	opts ...responseAssertion,
) (TResp, error) {
	var resp TResp

	payload, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}

	httpReq, err := http.NewRequest(method, fmt.Sprintf("%s%s", fixture.baseURL, path), bytes.NewReader(payload))
	if err != nil {
		return resp, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if as.SessionID != uuid.Nil {
		httpReq.AddCookie(&http.Cookie{Name: fixture.cookieName, Value: as.SessionID.String()})
	}

	httpResp, err := c.Do(httpReq)
	if err != nil {
		return resp, err
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	for _, opt := range opts {
		opt(httpResp)
	}

	responsePayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, err
	}

	if len(responsePayload) > 0 {
		if err := json.Unmarshal(responsePayload, &resp); err != nil {
			return resp, err
		}
	}

	return resp, nil
}

// login creates a user with a live session the way the auth flow
// leaves them after a successful sign in.
func login(t *testing.T) testUser {
	user := testUser{
		ID:        uuid.New(),
		Username:  fmt.Sprintf("user-%s", uuid.NewString()[:8]),
		SessionID: uuid.New(),
	}

	ctx := context.Background()

	_, err := tql.Exec(
		ctx,
		fixture.db,
		`INSERT INTO auth.user (id, username, email) VALUES ($1, $2, $3);`,
		user.ID,
		user.Username,
		fmt.Sprintf("%s@tests.com", user.ID),
	)
	require.NoError(t, err)

	_, err = tql.Exec(
		ctx,
		fixture.db,
		`INSERT INTO auth.session (id, user_id, expires_at) VALUES ($1, $2, $3);`,
		user.SessionID,
		user.ID,
		time.Now().UTC().Add(time.Hour),
	)
	require.NoError(t, err)

	return user
}

func addGame(t *testing.T, owner testUser, title string) {
	_, err := tql.Exec(
		context.Background(),
		fixture.db,
		`INSERT INTO game (id, owner_id, title, min_players, max_players) VALUES ($1, $2, $3, 2, 4);`,
		uuid.New(),
		owner.ID,
		title,
	)
	require.NoError(t, err)
}

func day(offset int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}
