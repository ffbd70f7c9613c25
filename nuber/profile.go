package nuber

import (
	"context"

	"github.com/vvakame/typeddoc/client"
	"github.com/vvakame/typeddoc/document"
	"github.com/vvakame/typeddoc/gql"
)

var meQuery = gql.Typed[gql.MeQuery, document.NoVariables](`
  query Me {
    me {
      id
      email
      role
      verified
    }
  }
`)

var editProfileMutation = gql.Typed[gql.EditProfileMutation, gql.EditProfileMutationVariables](`
  mutation editProfile($editProfileInput: EditProfileInput!) {
    editProfile(input: $editProfileInput) {
      ok
      error
    }
  }
`)

// Me returns the logged in user, from the cache once fetched.
func (s *Service) Me(ctx context.Context) (*gql.MeQuery, error) {
	s.mu.RLock()
	cached := s.me
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	token := s.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	result, err := client.Do(client.WithToken(ctx, token), s.client, meQuery, document.NoVariables{})
	if err != nil {
		return nil, err
	}

	// a login or logout during the fetch started another session
	s.mu.Lock()
	if s.token == token {
		s.me = result
	}
	s.mu.Unlock()

	return result, nil
}

// EditProfile changes the email and the password of the logged in user. An
// empty password is not sent. A new email makes the cached user unverified.
func (s *Service) EditProfile(ctx context.Context, form EditProfileForm) error {
	if err := s.validateForm(form); err != nil {
		return err
	}
	me, err := s.Me(ctx)
	if err != nil {
		return err
	}

	var input gql.EditProfileInput
	if form.Email != "" {
		input.Email = &form.Email
	}
	if form.Password != "" {
		input.Password = &form.Password
	}

	result, err := client.Do(s.session(ctx), s.client, editProfileMutation, gql.EditProfileMutationVariables{
		EditProfileInput: input,
	})
	if err != nil {
		return err
	}
	if err := apiError("editProfile", result.EditProfile.Ok, result.EditProfile.Error); err != nil {
		return err
	}

	if form.Email == "" || form.Email == me.Me.Email {
		return nil
	}
	editedUser := gql.Typed[gql.EditedUserFragment, document.NoVariables](`
            fragment EditedUser on User {
              email
              verified
            }
          `)
	return writeUserFragment(s, editedUser, gql.EditedUserFragment{
		Email:    form.Email,
		Verified: false,
	})
}
