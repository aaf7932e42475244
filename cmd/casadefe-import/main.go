// Command casadefe-import loads the casa spreadsheet exported from the old
// registration form.
//
//	casadefe-import -mode sql -in casas.csv > casas.sql
//	casadefe-import -mode users -in casas.csv -mongo-uri mongodb://... -db casadefe
//
// In sql mode every valid row becomes an INSERT INTO casas_fe statement on
// stdout. In users mode each leader email without an account gets one with
// a temporary password, printed to stdout for hand-off.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/authutil"
	"github.com/dalemusser/casadefe/internal/app/system/csvimport"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/domain/models"
	flag "github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", "sql", "sql or users")
	in := flag.String("in", "", "CSV file to read (default stdin)")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB URI (users mode)")
	dbName := flag.String("db", "casadefe", "MongoDB database (users mode)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*mode, *in, *mongoURI, *dbName, logger); err != nil {
		logger.Error("import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(mode, in, mongoURI, dbName string, logger *zap.Logger) error {
	src := io.Reader(os.Stdin)
	if in != "" {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	res, err := csvimport.Parse(src)
	if err != nil {
		return err
	}
	for _, re := range res.Errors {
		logger.Warn("row skipped", zap.String("reason", re.String()))
	}
	logger.Info("csv parsed", zap.Int("casas", len(res.Casas)), zap.Int("rejected", len(res.Errors)))

	switch mode {
	case "sql":
		return writeSQL(os.Stdout, res.Casas)
	case "users":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		created, skipped, err := createUsers(ctx, client.Database(dbName), res.Casas, os.Stdout, logger)
		logger.Info("users import finished", zap.Int("created", created), zap.Int("skipped", skipped))
		return err
	default:
		return fmt.Errorf("unknown mode %q (want sql or users)", mode)
	}
}

func writeSQL(w io.Writer, casas []models.Casa) error {
	for _, c := range casas {
		if _, err := fmt.Fprintln(w, csvimport.InsertStatement(c)); err != nil {
			return err
		}
	}
	return nil
}

// createUsers makes one account per distinct leader email. Rows without an
// email and emails that already have an account are skipped. Each new
// login and its temporary password is written to out as a CSV line.
func createUsers(ctx context.Context, db *mongo.Database, casas []models.Casa, out io.Writer, logger *zap.Logger) (created, skipped int, err error) {
	users := userstore.New(db)
	seen := map[string]bool{}

	for _, c := range casas {
		email := normalize.Email(c.LeaderEmail)
		if email == "" || seen[email] {
			skipped++
			continue
		}
		seen[email] = true

		pw := authutil.TempPassword()
		hash, err := authutil.HashPassword(pw)
		if err != nil {
			return created, skipped, err
		}
		u := models.User{FullName: c.LeaderName, Email: &email, PasswordHash: hash}
		if c.LeaderPhone != "" {
			p := c.LeaderPhone
			u.Phone = &p
		}

		_, err = users.Create(ctx, u)
		if errors.Is(err, userstore.ErrDuplicatePhone) {
			// The phone belongs to someone else; keep the email login only.
			u.Phone = nil
			_, err = users.Create(ctx, u)
		}
		switch {
		case errors.Is(err, userstore.ErrDuplicateEmail):
			skipped++
			continue
		case err != nil:
			return created, skipped, fmt.Errorf("create %s: %w", email, err)
		}

		created++
		logger.Info("user created", zap.String("email", email))
		if _, err := fmt.Fprintf(out, "%s,%s\n", email, pw); err != nil {
			return created, skipped, err
		}
	}
	return created, skipped, nil
}
