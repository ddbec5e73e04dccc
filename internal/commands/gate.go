package commands

import (
	"errors"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/auth"
	"github.com/pocketledger/pocketledger/internal/console"
)

var errPasswordMismatch = errors.New("passwords do not match")

// unlock asks for the password before any ledger access. On first run there
// is nothing to check against, so the user picks one instead.
func (a *app) unlock(p *console.Prompter) error {
	exists, err := a.gate.Exists()
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintln(p.Out(), "No password found. Let's set one!")
		return a.choosePassword(p, "Set a password for your tracker")
	}

	pw, err := p.Secret("Enter your password")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	ok, err := a.gate.Verify(pw)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Warn().Str("password_file", a.gate.Path()).Msg("password rejected")
		return auth.ErrAccessDenied
	}
	fmt.Fprintln(p.Out(), "Access granted.")
	return nil
}

func (a *app) choosePassword(p *console.Prompter, prompt string) error {
	pw, err := p.Secret(prompt)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	confirm, err := p.Secret("Confirm password")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if pw != confirm {
		return errPasswordMismatch
	}
	if err := a.gate.Set(pw); err != nil {
		return err
	}
	a.log.Info().Str("password_file", a.gate.Path()).Msg("password set")
	fmt.Fprintln(p.Out(), "Password set. Remember it!")
	return nil
}
