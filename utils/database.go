package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User is a row in the users table. Chips is the balance the blackjack
// engine settles against.
type User struct {
	UserID    int64
	Chips     int64
	Wins      int
	Losses    int
	CreatedAt time.Time
}

// UserUpdateData describes increments applied to a user in one statement
type UserUpdateData struct {
	ChipsIncrement  int64
	WinsIncrement   int
	LossesIncrement int
}

var (
	DB            *pgxpool.Pool
	dbInitialized = false
	dbMutex       sync.RWMutex

	// In-memory fallback when no DATABASE_URL is configured, so the bot
	// still runs locally with per-process balances.
	memUsers   = make(map[int64]*User)
	memUsersMu sync.Mutex
)

// SetupDatabase initializes the connection pool from DATABASE_URL. With no
// URL set the bot falls back to in-memory users.
func SetupDatabase() error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if dbInitialized {
		return nil
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil
	}

	ctx := context.Background()

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.ConnConfig.RuntimeParams = map[string]string{
		"application_name": "lsa-casino-bot",
		"timezone":         "UTC",
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	conn.Release()

	DB = pool
	dbInitialized = true

	if err := createUsersTable(); err != nil {
		return err
	}

	return nil
}

// CloseDatabase closes the connection pool
func CloseDatabase() {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if DB != nil {
		DB.Close()
		DB = nil
		dbInitialized = false
	}
}

// createUsersTable creates the users table if it does not exist
func createUsersTable() error {
	ctx := context.Background()
	query := `CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		chips BIGINT NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_chips ON users(chips);`
	if _, err := DB.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// GetUser retrieves a user, creating one with the starting balance if it
// doesn't exist
func GetUser(userID int64) (*User, error) {
	if DB == nil {
		return getMemUser(userID), nil
	}

	ctx := context.Background()
	user := &User{}

	query := `
		SELECT user_id, chips, wins, losses, created_at
		FROM users WHERE user_id = $1`

	err := DB.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Chips,
		&user.Wins,
		&user.Losses,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return CreateUser(userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// CreateUser creates a new user with the starting balance
func CreateUser(userID int64) (*User, error) {
	if DB == nil {
		return getMemUser(userID), nil
	}

	ctx := context.Background()
	user := &User{
		UserID:    userID,
		Chips:     StartingChips,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO users (user_id, chips, wins, losses, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := DB.Exec(ctx, query, user.UserID, user.Chips, user.Wins, user.Losses, user.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser applies the increments in a single UPDATE and returns the
// resulting row. Settlement rides on this: one statement, one apply.
func UpdateUser(userID int64, updates UserUpdateData) (*User, error) {
	if DB == nil {
		return updateMemUser(userID, updates), nil
	}

	ctx := context.Background()

	setParts := []string{}
	args := []interface{}{userID}
	argIndex := 2

	if updates.ChipsIncrement != 0 {
		setParts = append(setParts, fmt.Sprintf("chips = chips + $%d", argIndex))
		args = append(args, updates.ChipsIncrement)
		argIndex++
	}
	if updates.WinsIncrement != 0 {
		setParts = append(setParts, fmt.Sprintf("wins = wins + $%d", argIndex))
		args = append(args, updates.WinsIncrement)
		argIndex++
	}
	if updates.LossesIncrement != 0 {
		setParts = append(setParts, fmt.Sprintf("losses = losses + $%d", argIndex))
		args = append(args, updates.LossesIncrement)
		argIndex++
	}

	if len(setParts) == 0 {
		return GetUser(userID)
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE user_id = $1
		RETURNING user_id, chips, wins, losses, created_at`,
		strings.Join(setParts, ", "))

	user := &User{}
	err := DB.QueryRow(ctx, query, args...).Scan(
		&user.UserID,
		&user.Chips,
		&user.Wins,
		&user.Losses,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func getMemUser(userID int64) *User {
	memUsersMu.Lock()
	defer memUsersMu.Unlock()

	if user, exists := memUsers[userID]; exists {
		userCopy := *user
		return &userCopy
	}
	user := &User{UserID: userID, Chips: StartingChips, CreatedAt: time.Now()}
	memUsers[userID] = user
	userCopy := *user
	return &userCopy
}

func updateMemUser(userID int64, updates UserUpdateData) *User {
	memUsersMu.Lock()
	defer memUsersMu.Unlock()

	user, exists := memUsers[userID]
	if !exists {
		user = &User{UserID: userID, Chips: StartingChips, CreatedAt: time.Now()}
		memUsers[userID] = user
	}
	user.Chips += updates.ChipsIncrement
	user.Wins += updates.WinsIncrement
	user.Losses += updates.LossesIncrement
	userCopy := *user
	return &userCopy
}

// ChipLedger adapts the users table to the blackjack engine's ledger
// interface. ApplyDelta lands in one UPDATE so a settlement can never be
// half applied, and win/loss stats ride on the delta's sign.
type ChipLedger struct{}

// NewChipLedger creates the ledger
func NewChipLedger() *ChipLedger {
	return &ChipLedger{}
}

// GetBalance returns the participant's chip balance
func (cl *ChipLedger) GetBalance(_ context.Context, participantID int64) (int64, error) {
	user, err := GetCachedUser(participantID)
	if err != nil {
		return 0, err
	}
	return user.Chips, nil
}

// ApplyDelta credits or debits the participant's chips atomically
func (cl *ChipLedger) ApplyDelta(_ context.Context, participantID, delta int64) error {
	updates := UserUpdateData{ChipsIncrement: delta}
	if delta > 0 {
		updates.WinsIncrement = 1
	} else if delta < 0 {
		updates.LossesIncrement = 1
	}

	_, err := UpdateCachedUser(participantID, updates)
	return err
}
