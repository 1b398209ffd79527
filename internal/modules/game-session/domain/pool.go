package domain

import (
	"sort"
	"strings"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
)

// OwnedGame is a game from a confirmed participant's library.
type OwnedGame struct {
	Title      string    `db:"title"`
	OwnerID    uuid.UUID `db:"owner_id"`
	OwnerName  string    `db:"owner_name"`
	ImageURL   *string   `db:"image_url"`
	MinPlayers *int      `db:"min_players"`
	MaxPlayers *int      `db:"max_players"`
}

type Vote struct {
	UserID  uuid.UUID `db:"user_id"`
	GameKey string    `db:"game_key"`
}

type PoolEntry struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	OwnerCount int      `json:"ownerCount"`
	OwnerNames []string `json:"ownerNames"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
	MinPlayers *int     `json:"minPlayers,omitempty"`
	MaxPlayers *int     `json:"maxPlayers,omitempty"`
	VotesCount int      `json:"votesCount"`
	VotedByMe  bool     `json:"votedByMe"`
}

type Pool []PoolEntry

// GameKey identifies a game inside a pool. Copies owned by different
// participants share a key when their titles match after trimming,
// lower-casing and collapsing whitespace.
func GameKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// BuildPool merges the libraries into one entry per key and tallies the
// votes. Votes for keys outside the pool are ignored. Entries are ordered
// by votes descending, then title ascending.
func BuildPool(games []OwnedGame, votes []Vote, requesterID uuid.UUID) Pool {
	entries := make(map[string]*PoolEntry)
	owners := make(map[string]map[uuid.UUID]struct{})
	keys := make([]string, 0)

	for _, g := range games {
		key := GameKey(g.Title)
		if key == "" {
			continue
		}

		entry, found := entries[key]
		if !found {
			entry = &PoolEntry{
				Key:        key,
				Title:      strings.Join(strings.Fields(g.Title), " "),
				OwnerNames: make([]string, 0, 1),
			}
			entries[key] = entry
			owners[key] = make(map[uuid.UUID]struct{})
			keys = append(keys, key)
		}

		if entry.ImageURL == nil {
			entry.ImageURL = g.ImageURL
		}
		if entry.MinPlayers == nil {
			entry.MinPlayers = g.MinPlayers
		}
		if entry.MaxPlayers == nil {
			entry.MaxPlayers = g.MaxPlayers
		}

		if _, seen := owners[key][g.OwnerID]; !seen {
			owners[key][g.OwnerID] = struct{}{}
			entry.OwnerNames = append(entry.OwnerNames, g.OwnerName)
		}
	}

	for _, v := range votes {
		entry, found := entries[v.GameKey]
		if !found {
			continue
		}

		entry.VotesCount++
		if v.UserID == requesterID {
			entry.VotedByMe = true
		}
	}

	pool := make(Pool, 0, len(keys))
	for _, key := range keys {
		entry := entries[key]
		entry.OwnerCount = len(entry.OwnerNames)
		sort.Strings(entry.OwnerNames)
		pool = append(pool, *entry)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].VotesCount != pool[j].VotesCount {
			return pool[i].VotesCount > pool[j].VotesCount
		}
		if pool[i].Title != pool[j].Title {
			return pool[i].Title < pool[j].Title
		}
		return pool[i].Key < pool[j].Key
	})

	return pool
}

func (p Pool) Find(key string) (PoolEntry, bool) {
	for _, entry := range p {
		if entry.Key == key {
			return entry, true
		}
	}
	return PoolEntry{}, false
}

type FinalGame struct {
	SessionID uuid.UUID `db:"session_id" json:"-"`
	GameKey   string    `db:"game_key" json:"key"`
	Title     string    `db:"title" json:"title"`
	Position  int       `db:"position" json:"position"`
}

// SelectFinalGames resolves keys against the pool, keeping the first
// occurrence of each key in request order.
func (p Pool) SelectFinalGames(sessionID uuid.UUID, keys []string) ([]FinalGame, error) {
	seen := make(map[string]struct{}, len(keys))
	games := make([]FinalGame, 0, len(keys))

	for _, key := range keys {
		entry, found := p.Find(key)
		if !found {
			return nil, core.Validation("gameKeys", "GameNotInPool")
		}

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		games = append(games, FinalGame{
			SessionID: sessionID,
			GameKey:   entry.Key,
			Title:     entry.Title,
			Position:  len(games),
		})
	}

	return games, nil
}
