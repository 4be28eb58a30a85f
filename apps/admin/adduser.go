package main

import (
	"context"

	"github.com/trezcool/lms/core/user"
)

// addUser validates nu against the user validators and creates the user with its role record.
func (cli *commandLine) addUser(nu user.NewUser) (user.User, error) {
	ctx := context.Background()
	if err := nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return user.User{}, err
	}
	return cli.usrSvc.Create(ctx, nu)
}
