package nuber

import (
	"context"

	"github.com/vvakame/typeddoc/client"
	"github.com/vvakame/typeddoc/document"
	"github.com/vvakame/typeddoc/gql"
	"github.com/vvakame/typeddoc/internal/log"
)

var createAccountMutation = gql.Typed[gql.CreateAccountMutation, gql.CreateAccountMutationVariables](`
  mutation CreateAccount($createAccountInput: CreateAccountInput!) {
    createAccount(input: $createAccountInput) {
      ok
      error
    }
  }
`)

var loginMutation = gql.Typed[gql.LoginMutation, gql.LoginMutationVariables](`
  mutation Login($loginInput: LoginInput!) {
    login(input: $loginInput) {
      ok
      error
      token
    }
  }
`)

var verifyEmailMutation = gql.Typed[gql.VerifyEmailMutation, gql.VerifyEmailMutationVariables](`
  mutation VerifyEmail($verifyEmailInput: VerifyEmailInput!) {
    verifyEmail(input: $verifyEmailInput) {
      ok
      error
    }
  }
`)

// CreateAccount signs up a new user. Role defaults to Client.
func (s *Service) CreateAccount(ctx context.Context, form CreateAccountForm) (*gql.CreateAccountMutation, error) {
	if form.Role == "" {
		form.Role = gql.UserRoleClient
	}
	if err := s.validateForm(form); err != nil {
		return nil, err
	}

	result, err := client.Do(ctx, s.client, createAccountMutation, gql.CreateAccountMutationVariables{
		CreateAccountInput: gql.CreateAccountInput{
			Email:    form.Email,
			Password: form.Password,
			Role:     form.Role,
		},
	})
	if err != nil {
		return result, err
	}
	if err := apiError("createAccount", result.CreateAccount.Ok, result.CreateAccount.Error); err != nil {
		return result, err
	}

	log.FromContext(ctx).Info("account created", "email", form.Email, "role", form.Role)

	return result, nil
}

// Login starts a session and returns its token.
func (s *Service) Login(ctx context.Context, form LoginForm) (string, error) {
	if err := s.validateForm(form); err != nil {
		return "", err
	}

	result, err := client.Do(ctx, s.client, loginMutation, gql.LoginMutationVariables{
		LoginInput: gql.LoginInput{
			Email:    form.Email,
			Password: form.Password,
		},
	})
	if err != nil {
		return "", err
	}
	if err := apiError("login", result.Login.Ok, result.Login.Error); err != nil {
		return "", err
	}
	if result.Login.Token == nil {
		return "", &APIError{Operation: "login", Message: "no token"}
	}

	s.mu.Lock()
	s.token = *result.Login.Token
	s.me = nil
	s.mu.Unlock()

	return *result.Login.Token, nil
}

// VerifyEmail confirms the address with the code mailed to the user and marks
// the cached user as verified.
func (s *Service) VerifyEmail(ctx context.Context, code string) error {
	result, err := client.Do(s.session(ctx), s.client, verifyEmailMutation, gql.VerifyEmailMutationVariables{
		VerifyEmailInput: gql.VerifyEmailInput{Code: code},
	})
	if err != nil {
		return err
	}
	if err := apiError("verifyEmail", result.VerifyEmail.Ok, result.VerifyEmail.Error); err != nil {
		return err
	}

	verifiedUser := gql.Typed[gql.VerifiedUserFragment, document.NoVariables](`
          fragment VerifiedUser on User {
            verified
          }
        `)
	return writeUserFragment(s, verifiedUser, gql.VerifiedUserFragment{Verified: true})
}
