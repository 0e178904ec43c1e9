package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shutterpro/internal/common"
)

// Password changes the current user's password after re-checking the old
// one. Both entered passwords are wiped before returning.
func (a *App) Password(ctx context.Context) error {
	current, err := getPassword(os.Stdout, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(os.Stdout, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if len(next) == 0 {
		fmt.Println("New password must not be empty")
		return nil
	}

	if err := a.manager.ChangePassword(ctx, string(current), string(next)); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			fmt.Println("Current password is incorrect")
			return err
		}
		fmt.Printf("Password change failed: %s\n", err.Error())
		return err
	}

	fmt.Println("Password changed")
	return nil
}
