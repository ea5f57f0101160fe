package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates a new
// account. A successful registration logs the user in immediately: the
// returned token pair is persisted before this method returns.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	name, err := a.auth.Register(ctx, username, email, string(password))
	if err != nil {
		return err
	}

	a.userName = name
	fmt.Println("Welcome to WanderMap,", name)
	return a.guarded(ctx, a.trips.Refresh)
}

// Login prompts for credentials, authenticates, and loads the trip
// collection.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	name, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.userName = name
	fmt.Println("Logged in as", name)
	return a.guarded(ctx, a.trips.Refresh)
}

// Logout destroys the stored credentials and forgets the in-memory session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.trips.ClearSelection()
	fmt.Println("Logged out")
	return nil
}
