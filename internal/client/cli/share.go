package cli

import (
	"context"
	"errors"
	"fmt"

	"wandermap/internal/client/api"
)

// Share prints the current sharing state and both links (when they exist).
func (a *App) Share(ctx context.Context) error {
	return a.guarded(ctx, func(ctx context.Context) error {
		settings, err := a.share.FetchSettings(ctx)
		if err != nil {
			return err
		}
		if settings.PublicEnabled {
			fmt.Println("Journey visibility: public")
		} else {
			fmt.Println("Journey visibility: private")
		}
		if url := a.share.PublicURL(settings); url != "" {
			fmt.Println("Public link: ", url)
		} else {
			fmt.Println("Public link:  no link available")
		}
		if url := a.share.PrivateURL(settings); url != "" {
			fmt.Println("Private link:", url)
		} else {
			fmt.Println("Private link: no link available")
		}
		return nil
	})
}

// Publicity toggles whether the journey is publicly visible.
func (a *App) Publicity(ctx context.Context, args []string) error {
	if len(args) < 1 || (args[0] != "public" && args[0] != "private") {
		return usageError("Usage: publicity <public|private>")
	}
	public := args[0] == "public"

	if err := a.guarded(ctx, func(ctx context.Context) error {
		return a.share.SetPublicity(ctx, public)
	}); err != nil {
		return err
	}
	fmt.Println("Journey is now", args[0])
	return nil
}

// NewLink issues a fresh private share link, invalidating the previous one.
func (a *App) NewLink(ctx context.Context) error {
	if err := a.guarded(ctx, a.share.CreatePrivateLink); err != nil {
		return err
	}
	return a.Share(ctx)
}

// View shows another user's public journey. It needs no login.
func (a *App) View(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError("Usage: view <username>")
	}
	journey, err := a.share.PublicProfile(ctx, args[0])
	if err != nil {
		if errors.Is(err, api.ErrAuth) {
			fmt.Println("This profile is private and cannot be viewed.")
			return nil
		}
		return err
	}
	printJourney(journey)
	return nil
}

// Token shows a journey shared through a private link token.
func (a *App) Token(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError("Usage: token <token>")
	}
	journey, err := a.share.SharedByToken(ctx, args[0])
	if err != nil {
		return err
	}
	printJourney(journey)
	return nil
}
