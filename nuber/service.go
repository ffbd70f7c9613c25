package nuber

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/vvakame/typeddoc/client"
	"github.com/vvakame/typeddoc/document"
	"github.com/vvakame/typeddoc/gql"
)

// Service holds the session of one Nuber Eats user: the login token and the
// cached result of the Me query.
type Service struct {
	client   *client.Client
	validate *validator.Validate

	mu    sync.RWMutex
	token string
	me    *gql.MeQuery
}

func NewService(c *client.Client) *Service {
	return &Service{
		client:   c,
		validate: newValidator(),
	}
}

func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Service) IsLoggedIn() bool {
	return s.Token() != ""
}

func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.me = nil
}

func (s *Service) session(ctx context.Context) context.Context {
	if token := s.Token(); token != "" {
		return client.WithToken(ctx, token)
	}
	return ctx
}

// writeUserFragment overlays the fields of a fragment on the cached user.
// Without a cached user there is nothing to update.
func writeUserFragment[F any](s *Service, fragment *document.Document[F, document.NoVariables], data F) error {
	if fragment.IsEmpty() {
		return client.ErrEmptyDocument
	}
	if fragment.Kind() != document.KindFragment {
		return fmt.Errorf("nuber: %s is not a fragment", fragment.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.me == nil {
		return nil
	}

	fields := make(map[string]json.RawMessage)
	base, err := json.Marshal(s.me.Me)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(base, &fields); err != nil {
		return err
	}
	patch, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(patch, &fields); err != nil {
		return err
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	me := *s.me
	if err := json.Unmarshal(merged, &me.Me); err != nil {
		return err
	}
	s.me = &me
	return nil
}
