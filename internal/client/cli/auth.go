package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/shutterpro/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getYesNo = GetYesNo

// Login prompts the user for credentials and tries to authenticate.
//
// Verification is done by the session manager, which tries the server first
// and falls back to the local credential store when the server cannot be
// reached. A credential mismatch is reported to the user without revealing
// whether the email exists. The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rememberMe, err := getYesNo(a.reader, "Stay logged in?", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.manager.Login(ctx, email, string(password), rememberMe); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			fmt.Println("Invalid email or password")
			return err
		}
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	fmt.Printf("Welcome back, %s!\n", a.manager.CurrentUser().Name)
	return nil
}

// Logout ends the current session. Safe to call when not logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	a.api.Close()
	fmt.Println("Logged out")
	return nil
}
