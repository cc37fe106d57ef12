package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/useraccounts/internal/common"
)

// getSimpleText, getPassword and getFields are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getFields     = GetFields
)

var errNotLoggedIn = errors.New("log in first")

// readUser prompts for email, password and profile fields and returns them
// as a user document.
func (a *App) readUser() (map[string]any, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	user, err := getFields(a.reader, "Profile fields", a.out)
	if err != nil {
		return nil, err
	}
	user["email"] = email
	user["password"] = string(password)
	return user, nil
}

// Register prompts for a new account and creates it.
func (a *App) Register(ctx context.Context) error {
	user, err := a.readUser()
	if err != nil {
		return err
	}

	if err := a.client.Register(ctx, user); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout closes the current session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
