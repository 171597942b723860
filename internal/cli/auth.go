package cli

import (
	"context"
	"errors"
	"time"

	"github.com/gokmency/web3turkiyetoplulugu/service"
)

func (c *Cli) runLogin(ctx context.Context) error {
	w, err := c.openWallet()
	if err != nil {
		return err
	}
	defer w.Close()
	w.Connect()

	orch := c.orchestrator(w)
	orch.Init(ctx)

	c.IO.Println("Signing in...")
	if err := orch.SignIn(ctx); err != nil {
		return errors.New(orch.Error())
	}

	user := orch.User()
	c.IO.Println("")
	c.IO.Println("✓ Signed in")
	c.IO.Printf("Address: %s\n", user.WalletAddress)
	c.IO.Printf("Role:    %s\n", user.Role.Label())
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	orch := c.orchestrator(noWallet{})
	orch.Init(ctx)

	if orch.State() != service.StateAuthenticated {
		c.IO.Println("Not signed in")
		return nil
	}
	if err := orch.LogOut(ctx); err != nil {
		return err
	}
	c.IO.Println("✓ Signed out")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	session, err := c.Sessions.GetSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		c.IO.Println("Status: Not signed in")
		c.IO.Println("Run 'web3tr login' to sign in.")
		return nil
	}

	c.IO.Println("Status: Signed in")
	c.IO.Printf("Address:  %s\n", session.User.WalletAddress)
	if session.User.ENS != nil {
		c.IO.Printf("ENS:      %s\n", *session.User.ENS)
	}
	c.IO.Printf("Role:     %s\n", session.User.Role.Label())
	c.IO.Printf("Verified: %t\n", session.User.IsVerified)
	c.IO.Printf("Expires:  %s (%s left)\n", session.ExpiresAt.Format(time.RFC3339), time.Until(session.ExpiresAt).Round(time.Second))
	return nil
}

// runDisconnect disconnects the wallet during a session, which signs out.
func (c *Cli) runDisconnect(ctx context.Context) error {
	w, err := c.openWallet()
	if err != nil {
		return err
	}

	orch := c.orchestrator(w)
	orch.Init(ctx)
	wasSignedIn := orch.State() == service.StateAuthenticated

	w.Connect()
	w.Disconnect()
	w.Close()
	orch.Watch(ctx, w.Events())

	if wasSignedIn && orch.State() == service.StateUnauthenticated {
		c.IO.Println("✓ Wallet disconnected, signed out")
		return nil
	}
	c.IO.Println("Wallet disconnected")
	return nil
}
