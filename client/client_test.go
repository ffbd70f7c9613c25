package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/graphql/handler"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/typeddoc/client"
	"github.com/vvakame/typeddoc/document"
	"github.com/vvakame/typeddoc/gql"
	"github.com/vvakame/typeddoc/internal/log"
	"github.com/vvakame/typeddoc/internal/mockapi"
)

func newDataSources(t *testing.T, store *mockapi.Store) map[string]client.DataSource {
	t.Helper()

	srv := httptest.NewServer(mockapi.TokenMiddleware(handler.NewDefaultServer(mockapi.New(store))))
	t.Cleanup(srv.Close)

	return map[string]client.DataSource{
		"local":  &client.LocalDataSource{ExecutableSchema: mockapi.New(store)},
		"remote": &client.RemoteDataSource{URL: srv.URL},
	}
}

func TestDo(t *testing.T) {
	for name, ds := range newDataSources(t, mockapi.NewSeededStore()) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

			c := client.New(ds)
			email := name + "@nuber.test"

			created, err := client.Do(ctx, c, gql.CreateAccountDocument, gql.CreateAccountMutationVariables{
				CreateAccountInput: gql.CreateAccountInput{
					Email:    email,
					Password: "12345",
					Role:     gql.UserRoleOwner,
				},
			})
			if err != nil {
				t.Fatal(err)
			}
			if !created.CreateAccount.Ok {
				t.Fatalf("createAccount.ok = false, error %v", created.CreateAccount.Error)
			}

			duplicated, err := client.Do(ctx, c, gql.CreateAccountDocument, gql.CreateAccountMutationVariables{
				CreateAccountInput: gql.CreateAccountInput{
					Email:    email,
					Password: "12345",
					Role:     gql.UserRoleOwner,
				},
			})
			if err != nil {
				t.Fatal(err)
			}
			if duplicated.CreateAccount.Ok {
				t.Error("duplicated createAccount.ok = true")
			}
			if v := duplicated.CreateAccount.Error; v == nil || *v != "There is a user with that email already" {
				t.Errorf("unexpected createAccount.error: %v", v)
			}

			login, err := client.Do(ctx, c, gql.LoginDocument, gql.LoginMutationVariables{
				LoginInput: gql.LoginInput{Email: email, Password: "12345"},
			})
			if err != nil {
				t.Fatal(err)
			}
			if !login.Login.Ok || login.Login.Token == nil {
				t.Fatalf("login failed: %v", login.Login.Error)
			}

			me, err := client.Do(client.WithToken(ctx, *login.Login.Token), c, gql.MeDocument, document.NoVariables{})
			if err != nil {
				t.Fatal(err)
			}
			if v := me.Me.Email; v != email {
				t.Errorf("got = %v, want %v", v, email)
			}
			if v := me.Me.Role; v != gql.UserRoleOwner {
				t.Errorf("got = %v, want %v", v, gql.UserRoleOwner)
			}
			if me.Me.Verified {
				t.Error("new user is verified")
			}
		})
	}
}

func TestDo_errors(t *testing.T) {
	for name, ds := range newDataSources(t, mockapi.NewSeededStore()) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := client.New(ds)

			me, err := client.Do(ctx, c, gql.MeDocument, document.NoVariables{})
			if me != nil {
				t.Errorf("unexpected result: %+v", me)
			}
			var gErrs gqlerror.List
			if !errors.As(err, &gErrs) {
				t.Fatalf("unexpected error type: %T %v", err, err)
			}
			if v := len(gErrs); v != 1 {
				t.Fatalf("got = %v, want %v", v, 1)
			}
			if v := gErrs[0].Message; v != "Forbidden resource" {
				t.Errorf("got = %v, want %v", v, "Forbidden resource")
			}
			if v := gErrs[0].Path.String(); v != "me" {
				t.Errorf("got = %v, want %v", v, "me")
			}
		})
	}
}

func TestDo_emptyDocument(t *testing.T) {
	ctx := context.Background()
	c := client.New(&client.LocalDataSource{ExecutableSchema: mockapi.New(mockapi.NewStore())})

	unknown := "\n  query Me {\n    me {\n      id\n    }\n  }\n"

	tests := []struct {
		name string
		doc  *document.Document[gql.MeQuery, document.NoVariables]
	}{
		{"empty", document.Empty[gql.MeQuery, document.NoVariables]()},
		{"nil", nil},
		{"unknown source", gql.Typed[gql.MeQuery, document.NoVariables](unknown)},
		{"type mismatch", document.Lookup[gql.MeQuery, document.NoVariables](document.Default(), gql.LoginDocument.Source())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := client.Do(ctx, c, tt.doc, document.NoVariables{})
			if result != nil {
				t.Errorf("unexpected result: %+v", result)
			}
			if !errors.Is(err, client.ErrEmptyDocument) {
				t.Errorf("got = %v, want %v", err, client.ErrEmptyDocument)
			}
		})
	}
}

func TestDo_fragment(t *testing.T) {
	c := client.New(&client.LocalDataSource{ExecutableSchema: mockapi.New(mockapi.NewStore())})

	_, err := client.Do(context.Background(), c, gql.VerifiedUserFragmentDoc, document.NoVariables{})
	if err == nil {
		t.Fatal("fragment was executed")
	}
	if !strings.Contains(err.Error(), "fragment VerifiedUser") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRemoteDataSource_header(t *testing.T) {
	var gotToken, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(client.TokenHeader)
		gotCustom = r.Header.Get("X-Custom")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"me":{"id":1,"email":"a@nuber.test","role":"Client","verified":true}}}`))
	}))
	defer srv.Close()

	ds := &client.RemoteDataSource{
		URL:    srv.URL,
		Header: http.Header{"X-Custom": []string{"custom"}},
	}
	me, err := client.Do(client.WithToken(context.Background(), "token"), client.New(ds), gql.MeDocument, document.NoVariables{})
	if err != nil {
		t.Fatal(err)
	}
	if v := me.Me.ID; v != 1 {
		t.Errorf("got = %v, want %v", v, 1)
	}
	if gotToken != "token" {
		t.Errorf("got = %v, want %v", gotToken, "token")
	}
	if gotCustom != "custom" {
		t.Errorf("got = %v, want %v", gotCustom, "custom")
	}
}

func TestRemoteDataSource_statusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := client.Do(context.Background(), client.NewRemote(srv.URL), gql.MeDocument, document.NoVariables{})
	if err == nil {
		t.Fatal("error expected")
	}
	if v := err.Error(); !strings.Contains(v, "unexpected response code: 503") {
		t.Errorf("unexpected error: %v", v)
	}
}
