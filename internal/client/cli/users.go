package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var errUsage = errors.New("usage")

// List prints a page of users. Leading integer arguments are offset and
// limit; the remaining name=value arguments form the filter.
//
//	list 0 10 active=true team=core
func (a *App) List(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	var window []int
	for len(args) > 0 && len(window) < 2 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			break
		}
		window = append(window, n)
		args = args[1:]
	}
	offset, limit := 0, 0
	if len(window) > 0 {
		offset = window[0]
	}
	if len(window) > 1 {
		limit = window[1]
	}

	filter, err := ParseFields(args)
	if err != nil {
		return err
	}

	total, users, err := a.client.ListUsers(ctx, filter, offset, limit)
	if err != nil {
		return err
	}

	for _, u := range users {
		fmt.Fprintf(a.out, "%v\t%v\tactive=%v\n", u["id"], u["email"], u["active"])
	}
	fmt.Fprintf(a.out, "%d of %d\n", len(users), total)
	return nil
}

// Show prints every visible field of one user.
func (a *App) Show(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: show <id>", errUsage)
	}

	user, err := a.client.GetUser(ctx, args[0])
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(user))
	for k := range user {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, err := json.Marshal(user[k])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %s\n", k, v)
	}
	return nil
}

// Update replaces a user's email, password and profile with freshly
// prompted values.
func (a *App) Update(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: update <id>", errUsage)
	}

	user, err := a.readUser()
	if err != nil {
		return err
	}

	if err := a.client.UpdateUser(ctx, args[0], user); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Updated")
	return nil
}

func (a *App) Deactivate(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: deactivate <id>", errUsage)
	}

	if err := a.client.DeactivateUser(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deactivated")
	return nil
}
