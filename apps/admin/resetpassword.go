package main

import (
	"context"

	"github.com/trezcool/lms/core/user"
)

func (cli *commandLine) resetPassword(uid, pwd string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	reset := user.NewPasswordReset(usr, pwd)
	if err = reset.Validate(cli.validate); err != nil {
		return err
	}
	return cli.usrSvc.ResetPassword(ctx, reset.UID, reset.Password)
}
