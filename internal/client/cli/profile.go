package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
)

// Profile prints the current user details and offers a field-by-field edit.
// An empty answer keeps the stored value; only non-empty answers land in the
// patch.
func (a *App) Profile(ctx context.Context) error {
	cur := a.manager.CurrentUser()
	if cur == nil {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("Email:   %s\nName:    %s\nCompany: %s\nPhone:   %s\n",
		cur.Email, cur.Name, cur.Company, cur.Phone)

	edit, err := getYesNo(a.reader, "Edit profile?", os.Stdout)
	if err != nil {
		return err
	}
	if !edit {
		return nil
	}

	patch := models.ProfilePatch{}
	fields := []struct {
		prompt string
		dst    **string
	}{
		{"Name", &patch.Name},
		{"Company", &patch.Company},
		{"Phone", &patch.Phone},
	}
	for _, f := range fields {
		answer, err := getSimpleText(a.reader, f.prompt+" (empty to keep)", os.Stdout)
		if err != nil {
			return err
		}
		if answer != "" {
			v := answer
			*f.dst = &v
		}
	}

	if patch.IsEmpty() {
		fmt.Println("Nothing to change")
		return nil
	}

	if err := a.manager.UpdateProfile(ctx, patch); err != nil {
		fmt.Printf("Profile update failed: %s\n", err.Error())
		return err
	}

	fmt.Println("Profile updated")
	return nil
}
