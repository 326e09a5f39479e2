package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gokyle/readpass"
	"rsc.io/qr"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/client"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/session"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const usage = `commands:
  register <user>            create an account, prints a one-time recovery key
  login <user>               password login
  recover <user> <key>       login with the recovery key (journal stays locked)
  passkey-add <subject>      enroll this device for passwordless login
  passkey-login <subject>    passwordless login (journal stays locked)
  unlock                     derive the journal key after a passwordless login
  write <title> | <body>     add a journal entry
  read                       list journal entries
  sessions                   list active sessions
  signout-others             end every other session
  logout
  quit`

type shell struct {
	app *client.App
	out io.Writer
}

func (s *shell) prompt() string {
	if !s.app.State().Authenticated() {
		return "> "
	}
	if s.app.EncryptionUnlocked() {
		return "[unlocked]> "
	}
	return "[locked]> "
}

func (s *shell) exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	args := strings.Fields(rest)
	if err := s.app.RecordActivity(session.ActivityKeyboard); err != nil && !errors.Is(err, session.ErrSessionInactive) {
		return err
	}

	switch cmd {
	case "help":
		fmt.Fprintln(s.out, usage)
		return nil
	case "register":
		return s.register(ctx, args)
	case "login":
		if len(args) != 1 {
			return errors.New("usage: login <user>")
		}
		password, err := readpass.PasswordPrompt("Password: ")
		if err != nil {
			return err
		}
		_, err = s.app.Login(ctx, args[0], password)
		return err
	case "recover":
		if len(args) != 2 {
			return errors.New("usage: recover <user> <key>")
		}
		_, err := s.app.LoginWithRecoveryKey(ctx, args[0], args[1])
		return err
	case "passkey-add":
		if len(args) != 1 {
			return errors.New("usage: passkey-add <subject>")
		}
		cred, err := s.app.RegisterCredential(ctx, "terminal", args[0], models.PlatformAuthenticator)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "passkey %s enrolled\n", cred.CredentialID)
		return nil
	case "passkey-login":
		if len(args) != 1 {
			return errors.New("usage: passkey-login <subject>")
		}
		_, err := s.app.LoginWithCredential(ctx, args[0])
		return err
	case "unlock":
		password, err := readpass.PasswordPrompt("Password: ")
		if err != nil {
			return err
		}
		return s.app.InitializeEncryption(ctx, password)
	case "write":
		return s.write(ctx, rest)
	case "read":
		return s.read(ctx)
	case "sessions":
		for _, sess := range s.app.GetUserSessions(ctx) {
			fmt.Fprintf(s.out, "%s  %-8s  %s  last active %s\n", sess.SessionID, sess.AuthMethod,
				sess.DeviceInfo.Label, sess.LastActivityAt.Format("2006-01-02 15:04"))
		}
		return nil
	case "signout-others":
		n, err := s.app.TerminateOtherSessions(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d session(s) ended\n", n)
		return nil
	case "logout":
		return s.app.Logout(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *shell) register(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: register <user>")
	}
	password, err := readpass.PasswordPrompt("New password: ")
	if err != nil {
		return err
	}
	confirm, err := readpass.PasswordPrompt("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	reg, err := s.app.Register(ctx, args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "recovery key (shown once): %s\n", reg.RecoveryKey)
	path := "recovery-" + args[0] + ".png"
	if err := writeQR(path, reg.RecoveryKey); err != nil {
		return fmt.Errorf("writing recovery QR code: %w", err)
	}
	fmt.Fprintf(s.out, "recovery key also written to %s; store it offline and delete the file\n", path)
	return nil
}

func writeQR(path, text string) error {
	code, err := qr.Encode(text, qr.Q)
	if err != nil {
		return err
	}
	return os.WriteFile(path, code.PNG(), 0o600)
}

func (s *shell) write(ctx context.Context, rest string) error {
	title, body, ok := strings.Cut(rest, "|")
	if !ok {
		return errors.New("usage: write <title> | <body>")
	}
	_, userID, err := s.currentUser()
	if err != nil {
		return err
	}
	entry, err := s.app.Journal().Add(ctx, userID, models.JournalContent{
		Title: strings.TrimSpace(title),
		Body:  strings.TrimSpace(body),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved %s\n", entry.EntryID)
	return nil
}

func (s *shell) read(ctx context.Context) error {
	_, userID, err := s.currentUser()
	if err != nil {
		return err
	}
	entries, err := s.app.Journal().List(ctx, userID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "%s  %s\n  %s\n", e.CreatedAt.Format("2006-01-02"), e.Title, e.Body)
	}
	return nil
}

func (s *shell) currentUser() (string, string, error) {
	sessionID, userID, ok := s.app.Current()
	if !ok {
		return "", "", client.ErrNotAuthenticated
	}
	return sessionID, userID, nil
}
