package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fundhub/internal/adapter/repo"
	"fundhub/internal/domain"
)

// userrole promotes or demotes an account. There is no HTTP surface for role
// changes on purpose; the first admin has to come from somewhere.
func main() {
	var (
		idFlag    string
		emailFlag string
		roleFlag  string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&roleFlag, "role", "admin", "role to assign (user, admin)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(roleFlag)))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	switch role {
	case domain.UserRoleUser, domain.UserRoleAdmin:
	default:
		exitWithError(fmt.Errorf("unsupported role %q", role))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("connect database: %w", err))
	}
	defer pool.Close()

	users := repo.NewUserRepository(pool)

	user, err := lookupUser(ctx, users, userID, email)
	if err != nil {
		exitWithError(err)
	}
	if user.Role == role {
		fmt.Printf("%s (%s) already has role %s\n", user.Email, user.ID, role)
		return
	}
	if err := users.SetRole(ctx, user.ID, role); err != nil {
		exitWithError(fmt.Errorf("set role: %w", err))
	}
	fmt.Printf("%s (%s): %s -> %s\n", user.Email, user.ID, user.Role, role)
}

func lookupUser(ctx context.Context, users domain.UserRepository, userID, email string) (*domain.User, error) {
	if userID != "" {
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("lookup user %s: %w", userID, err)
		}
		return u, nil
	}
	u, err := users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", email, err)
	}
	return u, nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
