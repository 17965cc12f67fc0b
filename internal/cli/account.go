package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
)

func (cli *CommandLine) signIn(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("signin")
	username := fs.String("username", "", "The username. Prompted when omitted.")
	password := fs.String("password", "", "The password. Prompted when omitted.")
	if err := parse(fs, args); err != nil {
		return err
	}

	var err error
	if *username == "" {
		if *username, err = cli.prompt("Username: "); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = cli.promptPassword("Password: "); err != nil {
			return err
		}
	}

	user, err := cli.svc.Account().SignIn(ctx, models.SigninCredentials{Username: *username, Password: *password})
	if err != nil {
		return fail(err, services.MsgSignInFailed)
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s)\n", user.DisplayName(), user.Role)
	return nil
}

func (cli *CommandLine) signUp(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("signup")
	username := fs.String("username", "", "The new username.")
	role := fs.String("role", string(models.RoleStudent), "STUDENT, FACULTY, TA or ADMIN.")
	first := fs.String("first", "", "First name.")
	last := fs.String("last", "", "Last name.")
	email := fs.String("email", "", "Email address.")
	dob := fs.String("dob", "", "Date of birth, YYYY-MM-DD.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, *username); err != nil {
		return err
	}

	pwd, err := cli.promptPassword("Password: ")
	if err != nil {
		return err
	}
	verify, err := cli.promptPassword("Verify password: ")
	if err != nil {
		return err
	}

	user, err := cli.svc.Account().SignUp(ctx, models.SignupData{
		Username:       *username,
		Password:       pwd,
		VerifyPassword: verify,
		FirstName:      *first,
		LastName:       *last,
		Email:          *email,
		DOB:            *dob,
		Role:           models.UserRole(*role),
	})
	if err != nil {
		return fail(err, services.MsgSignUpFailed)
	}
	fmt.Fprintf(cli.out, "Welcome, %s\n", user.DisplayName())
	return nil
}

func (cli *CommandLine) whoAmI() error {
	user, ok := cli.svc.Account().Current()
	if !ok {
		fmt.Fprintln(cli.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(cli.out, "%s (%s, %s)\n", user.DisplayName(), user.Username, user.Role)
	return nil
}

// profile shows the profile, or updates it when any field flag is given
func (cli *CommandLine) profile(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("profile")
	var update models.ProfileUpdate
	fs.StringVar(&update.FirstName, "first", "", "New first name.")
	fs.StringVar(&update.LastName, "last", "", "New last name.")
	fs.StringVar(&update.Email, "email", "", "New email address.")
	fs.StringVar(&update.DOB, "dob", "", "New date of birth, YYYY-MM-DD.")
	if err := parse(fs, args); err != nil {
		return err
	}

	var (
		user *models.User
		err  error
	)
	if fs.NFlag() > 0 {
		user, err = cli.svc.Account().UpdateProfile(ctx, update)
		if err != nil {
			return fail(err, services.MsgProfileFailed)
		}
	} else {
		user, err = cli.svc.Account().Profile(ctx)
		if err != nil {
			return fail(err, services.MsgGetProfileFailed)
		}
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Username\t%s\n", user.Username)
	fmt.Fprintf(w, "Name\t%s %s\n", user.FirstName, user.LastName)
	fmt.Fprintf(w, "Email\t%s\n", user.Email)
	fmt.Fprintf(w, "Date of birth\t%s\n", user.DOB)
	fmt.Fprintf(w, "Role\t%s\n", user.Role)
	fmt.Fprintf(w, "Section\t%s\n", user.Section)
	fmt.Fprintf(w, "Last activity\t%s\n", user.LastActivity)
	return w.Flush()
}
