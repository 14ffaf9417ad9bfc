package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
)

// CreateUserCommand adds an account from the command line, typically the
// first administrator of a local-auth deployment.
type CreateUserCommand struct {
	DatabasePath string
	Username     string
	Email        string
	Password     string
	Role         string
	BcryptCost   int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", envOr("DATABASE_PATH", config.DefaultDatabasePath), "Path to the catalog database")
	fs.StringVar(&cmd.Username, "username", "", "Account username (required)")
	fs.StringVar(&cmd.Email, "email", "", "Account email (required)")
	fs.StringVar(&cmd.Password, "password", os.Getenv("CATALOG_PASSWORD"), "Account password, defaults to $CATALOG_PASSWORD")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleMember), "Role: admin, librarian or member")
	fs.IntVar(&cmd.BcryptCost, "cost", 12, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account in the catalog database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username admin -email admin@example.com -role admin\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" {
		fs.Usage()
		return errors.New("username and email are required")
	}
	if cmd.Password == "" {
		return errors.New("password is required, pass -password or set CATALOG_PASSWORD")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel(logger.Silent))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: cmd.BcryptCost})
	user, err := service.CreateUser(auth.NewUserInput{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: cmd.Password,
		Role:     entities.UserRole(cmd.Role),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s account %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
