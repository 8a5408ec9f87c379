package cli

import (
	"context"
	"fmt"

	"github.com/avdeevd/fundkeeper/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	handle, err := getSimpleText(a.reader, "Enter handle", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.coord.Register(ctx, handle, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registered. You can now log in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	handle, err := getSimpleText(a.reader, "Enter handle", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.coord.SignIn(ctx, handle, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.coord.Session().Handle())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.coord.SignOut()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
