// Package cli implements puantajctl, the operator tool for accounts and
// backups that works directly on the configured database.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
)

var errPasswordsDiffer = errors.New("passwords do not match")

const usage = `usage: puantajctl <command> [flags]

commands:
  users                          list accounts
  useradd -username U [-name N]  create an account
  passwd  -username U            set a new password
  export  [-out FILE]            write a backup document (stdout by default)
  archive                        store a backup in file storage
  archives                       list stored backups
  restore -in FILE               replace all data with a backup document
`

type App struct {
	auth   auth.AuthService
	backup backup.BackupService
	out    io.Writer
}

func NewApp(authService auth.AuthService, backupService backup.BackupService, out io.Writer) *App {
	return &App{
		auth:   authService,
		backup: backupService,
		out:    out,
	}
}

// Run executes one command given as os.Args[1:].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "users":
		return a.users(ctx)
	case "useradd":
		return a.useradd(ctx, rest)
	case "passwd":
		return a.passwd(ctx, rest)
	case "export":
		return a.export(ctx, rest)
	case "archive":
		return a.archive(ctx)
	case "archives":
		return a.archives(ctx)
	case "restore":
		return a.restore(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}

	fmt.Fprint(a.out, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *App) users(ctx context.Context) error {
	list, err := a.auth.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tCREATED")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, u.Name, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) useradd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("username", "", "login name")
	name := fs.String("name", "", "display name (defaults to the username)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}
	if *name == "" {
		*name = *username
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	created, err := a.auth.Register(ctx, auth.RegisterRequest{
		Name:            *name,
		Username:        *username,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (%s)\n", created.Username, created.ID)
	return nil
}

func (a *App) passwd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("username", "", "login name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.SetPassword(ctx, *username, password); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "password updated for %s\n", *username)
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.out)
	out := fs.String("out", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := a.backup.Export(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if *out == "" {
		_, err := a.out.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	fmt.Fprintf(a.out, "wrote %d employees and %d records to %s\n", len(doc.Employees), len(doc.Attendance), *out)
	return nil
}

func (a *App) archive(ctx context.Context) error {
	result, err := a.backup.Archive(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "archived %s\n", result.Path)
	return nil
}

func (a *App) archives(ctx context.Context) error {
	list, err := a.backup.ListArchives(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, info := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Size, info.ModifiedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(a.out)
	in := fs.String("in", "", "backup file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *in, err)
	}
	var doc backup.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", backup.ErrInvalidSnapshot, err)
	}

	result, err := a.backup.Restore(ctx, doc)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "restored %d employees, %d records, %d users\n", result.Employees, result.Attendance, result.Users)
	return nil
}
